package store

import (
	"context"
	"fmt"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/database"
	"identity-service/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound 查無使用者
var ErrNotFound = apperror.NotFound("user")

// SortField 可排序欄位
type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder 排序方向
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListFilter 清單篩選條件；Role 為 nil 表示不篩選
type ListFilter struct {
	Role *model.Role
}

// Sort 清單排序方式
type Sort struct {
	Field SortField
	Order SortOrder
}

// UserStore 是使用者資料的持久化協作者；每個方法對呼叫端而言皆為原子操作
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Save(ctx context.Context, u *model.User) (*model.User, error)
	Remove(ctx context.Context, u *model.User) error
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
	List(ctx context.Context, filter ListFilter, sort Sort) ([]model.User, error)
	ListInactiveSince(ctx context.Context, threshold time.Time) ([]model.InactiveUser, error)
}

const userColumns = `id, name, email, password_hash, role, status, last_login_at, picture, is_oauth, created_at, updated_at`

// orderColumns 將排序欄位對應到 SQL 欄位，只允許白名單內的值進入查詢字串
var orderColumns = map[SortField]string{
	SortByName:      "name",
	SortByCreatedAt: "created_at",
}

// PostgresUserStore 以 PostgreSQL 實作 UserStore
type PostgresUserStore struct {
	db database.DB
}

// NewPostgresUserStore 建立 PostgresUserStore
func NewPostgresUserStore(db database.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Status,
		&u.LastLoginAt,
		&u.Picture,
		&u.IsOAuth,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func (s *PostgresUserStore) findOne(ctx context.Context, op, where string, arg any) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail 以 email 查詢使用者
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, "FindByEmail", "email = $1", email)
}

// FindByID 以 ID 查詢使用者
func (s *PostgresUserStore) FindByID(ctx context.Context, id int) (*model.User, error) {
	return s.findOne(ctx, "FindByID", "id = $1", id)
}

// Create 新增使用者，email 重複時回傳 ConflictError
func (s *PostgresUserStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, status, picture, is_oauth)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Status,
		u.Picture,
		u.IsOAuth,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("email already registered", err)
		}
		return nil, fmt.Errorf("Create: %w", err)
	}
	return u, nil
}

// Save 寫回使用者的可變欄位並更新 updated_at；last_login_at 只由 TouchLastLogin 寫入
func (s *PostgresUserStore) Save(ctx context.Context, u *model.User) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE users
		 SET name = $1, email = $2, password_hash = $3, role = $4, status = $5,
		     picture = $6, is_oauth = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING updated_at, last_login_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Status,
		u.Picture,
		u.IsOAuth,
		u.ID,
	)
	if err := row.Scan(&u.UpdatedAt, &u.LastLoginAt); err != nil {
		switch {
		case database.IsNoRows(err):
			return nil, ErrNotFound
		case database.IsUniqueViolation(err):
			return nil, apperror.Conflict("email already registered", err)
		}
		return nil, fmt.Errorf("Save: %w", err)
	}
	return u, nil
}

// Remove 刪除使用者
func (s *PostgresUserStore) Remove(ctx context.Context, u *model.User) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	if err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin 只更新 last_login_at，避免覆寫同時進行的其他修改
func (s *PostgresUserStore) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET last_login_at = $1 WHERE id = $2`,
		at,
		id,
	)
	if err != nil {
		return fmt.Errorf("TouchLastLogin: %w", err)
	}
	return nil
}

// List 依角色篩選並排序；未知的排序欄位或方向退回 created_at ASC
func (s *PostgresUserStore) List(ctx context.Context, filter ListFilter, sort Sort) ([]model.User, error) {
	column, ok := orderColumns[sort.Field]
	if !ok {
		column = orderColumns[SortByCreatedAt]
	}
	direction := "ASC"
	if sort.Order == OrderDesc {
		direction = "DESC"
	}

	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if filter.Role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*filter.Role))
	}
	query += ` ORDER BY ` + column + ` ` + direction + `, id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return users, nil
}

// ListInactiveSince 列出從未登入或最後登入早於 threshold 的使用者，
// 依 last_login_at 遞增排序且 NULL 在前
func (s *PostgresUserStore) ListInactiveSince(ctx context.Context, threshold time.Time) ([]model.InactiveUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, email, name, last_login_at, created_at
		 FROM users
		 WHERE last_login_at IS NULL OR last_login_at < $1
		 ORDER BY last_login_at ASC NULLS FIRST, id ASC`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("ListInactiveSince: %w", err)
	}
	defer rows.Close()

	users := []model.InactiveUser{}
	for rows.Next() {
		var u model.InactiveUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.LastLoginAt, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListInactiveSince: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListInactiveSince: %w", err)
	}
	return users, nil
}
