package model

// Principal 是由已驗證的 token 還原出的呼叫者身分，只存在於單一請求內
type Principal struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IsAdmin 回報呼叫者是否為管理員
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
