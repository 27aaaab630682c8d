package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"identity-service/internal/api"
	"identity-service/internal/apperror"
	"identity-service/internal/metrics"
	"identity-service/internal/model"
	"identity-service/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

var (
	ErrMissingToken    = apperror.Unauthenticated("missing token")
	ErrMalformedHeader = apperror.Unauthenticated("invalid authorization header format")
	ErrInvalidToken    = apperror.Unauthenticated("invalid token")
)

// TokenVerifier 驗證 bearer token 並還原呼叫者身分，*service.TokenService 實作之
type TokenVerifier interface {
	Verify(token string) (*model.Principal, error)
}

// Authenticator 從 Authorization header 取出並驗證 bearer token
type Authenticator struct {
	verifier TokenVerifier
	metrics  *metrics.Metrics
}

// NewAuthenticator 建立 Authenticator；m 可為 nil
func NewAuthenticator(v TokenVerifier, m *metrics.Metrics) *Authenticator {
	return &Authenticator{verifier: v, metrics: m}
}

// Principal 依 header 內容判定 NoToken / Invalid / Valid
func (a *Authenticator) Principal(header string) (*model.Principal, error) {
	if header == "" {
		a.metrics.TokenVerification(metrics.ResultMissing)
		return nil, ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		a.metrics.TokenVerification(metrics.ResultInvalid)
		return nil, ErrMalformedHeader
	}
	p, err := a.verifier.Verify(token)
	if err != nil {
		a.metrics.TokenVerification(metrics.ResultInvalid)
		return nil, errors.Join(ErrInvalidToken, err)
	}
	// 簽章有效但缺少 userId 的舊格式 token 亦視為無效
	if p == nil || p.UserID == 0 {
		a.metrics.TokenVerification(metrics.ResultInvalid)
		return nil, ErrInvalidToken
	}
	a.metrics.TokenVerification(metrics.ResultValid)
	return p, nil
}

// RequireAuth 驗證通過後把 Principal 放進 request context
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := a.Principal(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: apperror.Message(err, "unauthorized")})
		}
		req := c.Request()
		c.SetRequest(req.WithContext(service.WithPrincipal(req.Context(), p)))
		return next(c)
	}
}

// RequestLogger 以 slog 記錄每個請求
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if p := service.PrincipalFrom(c.Request().Context()); p != nil {
				attrs = append(attrs, slog.Int("user_id", p.UserID))
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.Any("error", v.Error))
			} else if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
