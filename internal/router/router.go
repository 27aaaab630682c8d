package router

import (
	"identity-service/internal/cache"
	"identity-service/internal/database"
	"identity-service/internal/handler"
	"identity-service/internal/handler/auth"
	"identity-service/internal/handler/users"
	"identity-service/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps 路由所需的服務；Gatherer 為 nil 時不掛載 /metrics
type Deps struct {
	DB            database.DB
	Cache         cache.Cache
	Auth          auth.Authenticator
	Users         users.UserService
	Authenticator *middleware.Authenticator
	Gatherer      prometheus.Gatherer
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	requireAuth := d.Authenticator.RequireAuth

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache), requireAuth)

	// 註冊與登入
	api.POST("/auth/register", auth.RegisterHandler(d.Auth))
	api.POST("/auth/login", auth.LoginHandler(d.Auth))

	// 使用者管理；權限由 service 層的 policy 判斷
	apiUsers := api.Group("/users", requireAuth)
	apiUsers.GET("", users.ListUsersHandler(d.Users))
	apiUsers.GET("/profile", users.ProfileHandler(d.Users))
	apiUsers.GET("/inactive", users.InactiveUsersHandler(d.Users))
	apiUsers.GET("/filter", users.FilterUsersHandler(d.Users))
	apiUsers.GET("/:id", users.GetUserHandler(d.Users))
	apiUsers.PATCH("/:id", users.UpdateUserHandler(d.Users))
	apiUsers.DELETE("/:id", users.DeleteUserHandler(d.Users))

	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
