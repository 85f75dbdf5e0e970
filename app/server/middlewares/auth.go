package middlewares

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"strconv"
	"strings"
	"virtual-hospital/app/server/constants"
	"virtual-hospital/app/server/jwt"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/types"
)

// ContextUserKey 认证通过后写入 echo context 的用户记录
const ContextUserKey = "user"

// Auth 认证中间件：提取 token 、校验签名和有效期、加载对应的用户记录。
// token 优先从 Authorization 头提取，其次是 cookie 。
func Auth(db *gorm.DB, j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rctx := c.Request().Context()

			// 提取 token
			token := ""
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				splits := strings.Split(authHeader, " ")
				if len(splits) == 2 && strings.ToLower(splits[0]) == "bearer" {
					token = splits[1]
				}
			}
			if token == "" {
				if cookie, err := c.Cookie(constants.JWTCookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				return unauthorized(c)
			}

			// 验证 token
			jwtUser, err := j.ParseUser(token)
			if err != nil {
				return unauthorized(c)
			}

			// 加载对应的用户记录，不存在视同认证失败
			var user models.User
			if err := db.WithContext(rctx).First(&user, "id = ?", jwtUser.ID).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					l.Error("failed to get user", zap.Uint("id", jwtUser.ID), zap.Error(err))
				}
				return unauthorized(c)
			}

			// 设置 context
			c.Set(ContextUserKey, &user)

			// 继续处理
			return next(c)
		}
	}
}

// SelfOrAdmin 授权中间件：路径中的 userId 必须是当前用户自己，管理员不受限制。
// 必须串在 Auth 之后使用。
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextUserKey).(*models.User)
			if !ok {
				return unauthorized(c)
			}

			if !user.IsAdmin() && c.Param("userId") != strconv.FormatUint(uint64(user.ID), 10) {
				return forbidden(c)
			}

			return next(c)
		}
	}
}

// Admin 授权中间件：只允许管理员通过。必须串在 Auth 之后使用。
func Admin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextUserKey).(*models.User)
			if !ok {
				return unauthorized(c)
			}

			if !user.IsAdmin() {
				return forbidden(c)
			}

			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, &types.Response{
		APIVersion: constants.APIVersion,
		Error: &types.ErrorBody{
			Code:    http.StatusUnauthorized,
			Message: "User not authorize",
		},
	})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, &types.Response{
		APIVersion: constants.APIVersion,
		Error: &types.ErrorBody{
			Code:    http.StatusForbidden,
			Message: "User forbidden",
		},
	})
}
