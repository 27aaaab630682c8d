// Package policy decides whether a principal may perform an operation on
// user records. It never touches storage: every decision is made from the
// principal and the request target alone.
package policy

import (
	"identity-service/internal/apperror"
	"identity-service/internal/model"
)

// Operation 使用者資源上的操作
type Operation int

const (
	ListAll Operation = iota + 1
	ListFiltered
	ListInactive
	ReadProfile
	ReadUser
	UpdateUser
	DeleteUser
)

var operationNames = map[Operation]string{
	ListAll:      "list_all",
	ListFiltered: "list_filtered",
	ListInactive: "list_inactive",
	ReadProfile:  "read_profile",
	ReadUser:     "read_user",
	UpdateUser:   "update_user",
	DeleteUser:   "delete_user",
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return "unknown"
}

// Target 描述操作對象；UserID 為 0 表示不針對單一使用者
type Target struct {
	UserID          int
	ChangesPassword bool
	ChangesRole     bool
}

var (
	ErrUnauthenticated = apperror.Unauthenticated("authentication required")
	ErrAdminOnly       = apperror.Forbidden("admin privileges required")
	ErrNotOwner        = apperror.Forbidden("not allowed to access this user")
	ErrPasswordNotSelf = apperror.Forbidden("only the owner can change the password")
	ErrRoleChange      = apperror.Forbidden("role cannot be changed")
	ErrUnknown         = apperror.Forbidden("operation not allowed")
	ErrNegativeDays    = apperror.Validation("days must be a non-negative integer")
)

// Authorize 回傳 nil 表示允許；拒絕時回傳 Unauthenticated 或 Forbidden 類型的錯誤
func Authorize(p *model.Principal, op Operation, t Target) error {
	if p == nil {
		return ErrUnauthenticated
	}

	self := t.UserID != 0 && t.UserID == p.UserID

	switch op {
	case ListAll, ListFiltered, ListInactive, DeleteUser:
		if !p.IsAdmin() {
			return ErrAdminOnly
		}
		return nil
	case ReadProfile:
		return nil
	case ReadUser:
		if self || p.IsAdmin() {
			return nil
		}
		return ErrNotOwner
	case UpdateUser:
		if t.ChangesRole {
			return ErrRoleChange
		}
		if !self && !p.IsAdmin() {
			return ErrNotOwner
		}
		if t.ChangesPassword && !self {
			return ErrPasswordNotSelf
		}
		return nil
	default:
		return ErrUnknown
	}
}

// ValidateInactiveDays 檢查閒置天數
func ValidateInactiveDays(days int) error {
	if days < 0 {
		return ErrNegativeDays
	}
	return nil
}
