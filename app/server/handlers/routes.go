package handlers

import (
	"github.com/labstack/echo/v4"
	"virtual-hospital/app/server/middlewares"
)

// RegisterRoutes 绑定所有的 API 路由和对应的认证、授权中间件
func (a *App) RegisterRoutes(e *echo.Echo) {
	auth := middlewares.Auth(a.db, a.jwt, a.l)
	selfOrAdmin := middlewares.SelfOrAdmin()
	admin := middlewares.Admin()

	api := e.Group("/api/v1")

	// 认证
	api.POST("/auth/register", a.AuthRegister)
	api.POST("/auth/login", a.AuthLogin)
	api.POST("/auth/logout", a.AuthLogout)

	// 公开的用户列表
	api.GET("/users", a.UserListAll)
	api.GET("/users/pagination", a.UserPagination)

	// 本人或管理员
	api.GET("/users/:userId", a.UserGet, auth, selfOrAdmin)
	api.DELETE("/users/:userId", a.UserDelete, auth, selfOrAdmin)
	api.PATCH("/users/:userId/devices", a.UserDevicePatch, auth, selfOrAdmin)

	// 仅管理员
	adminGroup := api.Group("/admin", auth, admin)
	adminGroup.POST("/users", a.AdminUserCreate)
	adminGroup.PUT("/users/:userId", a.AdminUserUpdate)
}
