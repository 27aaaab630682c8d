package auth

import (
	"context"
	"net/http"
	"strings"

	"identity-service/internal/api"
	"identity-service/internal/handler"
	"identity-service/internal/model"
	"identity-service/internal/service"

	"github.com/labstack/echo/v4"
)

// Authenticator 是 handler 需要的帳號操作，*service.Auth 實作之
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.PublicUser, error)
	Authenticate(ctx context.Context, email, password string) (*model.PublicUser, error)
	Login(u model.PublicUser) (*service.LoginResult, error)
}

// RegisterHandler 建立一般使用者帳號
// @Summary     註冊使用者
// @Description 建立密碼帳號；角色固定為 user，Email 會自動轉小寫
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} model.PublicUser
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(a Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, err.Error())
		}

		u, err := a.Register(c.Request().Context(), service.RegisterInput{
			Name:     req.Name,
			Email:    strings.ToLower(req.Email),
			Password: req.Password,
			Picture:  req.Picture,
			IsOAuth:  req.IsOAuth,
			Role:     model.Role(req.Role),
			Status:   req.Status,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, u)
	}
}

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 驗證帳密後回傳一小時有效的存取令牌與使用者基本資料
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(a Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, err.Error())
		}

		u, err := a.Authenticate(c.Request().Context(), strings.ToLower(req.Email), req.Password)
		if err != nil {
			return handler.Error(c, err)
		}

		res, err := a.Login(*u)
		if err != nil {
			return handler.Error(c, err)
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: res.AccessToken,
			Name:        res.Name,
			Role:        string(res.Role),
			Status:      res.Status,
			Email:       res.Email,
			UserID:      res.UserID,
		})
	}
}
