package users

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"identity-service/internal/api"
	"identity-service/internal/handler"
	"identity-service/internal/model"
	"identity-service/internal/policy"
	"identity-service/internal/service"

	"github.com/labstack/echo/v4"
)

const defaultInactiveDays = 30

// UserService 是 handler 需要的使用者操作，*service.Users 實作之
type UserService interface {
	ListAll(ctx context.Context, p *model.Principal) ([]model.PublicUser, error)
	ListFiltered(ctx context.Context, p *model.Principal, q service.ListQuery) ([]model.PublicUser, error)
	ListInactive(ctx context.Context, p *model.Principal, days int) ([]model.InactiveUser, error)
	Profile(ctx context.Context, p *model.Principal) (*model.PublicUser, error)
	Get(ctx context.Context, p *model.Principal, id int) (*model.PublicUser, error)
	Update(ctx context.Context, p *model.Principal, id int, in service.UpdateInput) (*model.PublicUser, error)
	Delete(ctx context.Context, p *model.Principal, id int) error
}

func principal(c echo.Context) *model.Principal {
	return service.PrincipalFrom(c.Request().Context())
}

func parseID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// @Summary     List all users
// @Description 列出所有使用者（僅管理員）
// @Tags        users
// @Produce     json
// @Success     200 {array}  model.PublicUser
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := s.ListAll(c.Request().Context(), principal(c))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

// @Summary     Get current user
// @Description 透過 JWT 取得當前使用者資料
// @Tags        users
// @Produce     json
// @Success     200 {object} model.PublicUser
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/profile [get]
func ProfileHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := s.Profile(c.Request().Context(), principal(c))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}
}

// @Summary     List inactive users
// @Description 列出超過 days 天未登入的使用者（僅管理員），從未登入者排在最前
// @Tags        users
// @Produce     json
// @Param       days query    int false "閒置天數" default(30)
// @Success     200  {array}  model.InactiveUser
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/inactive [get]
func InactiveUsersHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := principal(c)
		days := defaultInactiveDays
		if raw := c.QueryParam("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				// 權限不足時優先回 403
				if err := policy.Authorize(p, policy.ListInactive, policy.Target{}); err != nil {
					return handler.Error(c, err)
				}
				return handler.Error(c, policy.ErrNegativeDays)
			}
			days = n
		}
		users, err := s.ListInactive(c.Request().Context(), p, days)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

// @Summary     Filter users
// @Description 依角色篩選並依 name 或 createdAt 排序（僅管理員）
// @Tags        users
// @Produce     json
// @Param       role   query    string false "角色" Enums(admin, user)
// @Param       sortBy query    string false "排序欄位" Enums(name, createdAt)
// @Param       order  query    string false "排序方向" Enums(asc, desc)
// @Success     200    {array}  model.PublicUser
// @Failure     400    {object} api.ErrorResponse
// @Failure     401    {object} api.ErrorResponse
// @Failure     403    {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/filter [get]
func FilterUsersHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q api.ListUsersQuery
		if err := c.Bind(&q); err != nil {
			return handler.BadRequest(c, "invalid query")
		}
		if err := c.Validate(&q); err != nil {
			return handler.BadRequest(c, err.Error())
		}

		lq := service.ListQuery{SortBy: q.SortBy, Order: q.Order}
		if q.Role != "" {
			role := model.Role(q.Role)
			lq.Role = &role
		}
		users, err := s.ListFiltered(c.Request().Context(), principal(c), lq)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

// @Summary     Get a user by ID
// @Description 透過 ID 查詢使用者（本人或管理員）
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} model.PublicUser
// @Failure     400 {object} api.ErrorResponse "參數錯誤"
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.BadRequest(c, "invalid user ID")
		}
		u, err := s.Get(c.Request().Context(), principal(c), id)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}
}

// @Summary     Update a user by ID
// @Description 更新使用者資料（本人或管理員）；只有本人可以變更密碼，角色不可修改
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "使用者 ID"
// @Param       body body     api.UpdateUserRequest true "更新欄位"
// @Success     200  {object} model.PublicUser
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [patch]
func UpdateUserHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.BadRequest(c, "invalid user ID")
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, err.Error())
		}
		if req.Role != nil {
			return handler.Error(c, policy.ErrRoleChange)
		}

		if req.Email != nil {
			lower := strings.ToLower(*req.Email)
			req.Email = &lower
		}
		u, err := s.Update(c.Request().Context(), principal(c), id, service.UpdateInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Picture:  req.Picture,
			Status:   req.Status,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}
}

// @Summary     Delete a user by ID
// @Description 刪除使用者帳號（僅管理員）
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(s UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.BadRequest(c, "invalid user ID")
		}
		if err := s.Delete(c.Request().Context(), principal(c), id); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "user removed"})
	}
}
