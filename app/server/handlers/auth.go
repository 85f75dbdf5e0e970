package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"virtual-hospital/app/server/constants"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/password"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Picture   string `json:"picture"`
	DeviceID  string `json:"deviceId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) AuthRegister(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 校验输入
	var errs validationErrors
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		errs.add("firstName, lastName, email, username or password", "body", "Missing required fields.")
	}
	if !isValidEmail(req.Email) {
		errs.add("email", "body", "The email format is not valid.")
	}
	if unique, err := a.isUniqueUsername(rctx, req.Username, 0); err != nil {
		a.l.Error("failed to check username", zap.String("username", req.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not register the new user")
	} else if !unique {
		errs.add("username", "body", "The username is already taken.")
	}
	if len(errs) > 0 {
		return a.erValidation(c, errs)
	}

	// 处理密码
	salt, hash, err := password.Hash(req.Password)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not register the new user")
	}

	// 创建用户，注册入口的角色固定为普通用户
	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Picture:   req.Picture,
		Role:      models.RoleUser,
		Hash:      hash,
		Salt:      salt,
		DeviceID:  req.DeviceID,
	}
	if err := a.db.WithContext(rctx).Create(&user).Error; err != nil {
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not register the new user")
	}

	// 签出 JWT 并写入 cookie
	token, err := a.jwt.SignToken(user.ID)
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not register the new user")
	}
	a.setTokenCookie(c, token)

	// 返回
	return a.ok(c, http.StatusOK, echo.Map{
		"register": true,
	})
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 按用户名查找用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "username = ?", req.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusUnauthorized, "Failed during login")
		}
		a.l.Error("failed to find user", zap.String("username", req.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Failed during login")
	}

	// 校验密码
	if !password.Verify(req.Password, user.Hash, user.Salt) {
		return a.er(c, http.StatusUnauthorized, "Failed during login")
	}

	// 签出 JWT 并写入 cookie
	token, err := a.jwt.SignToken(user.ID)
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Failed during login")
	}
	a.setTokenCookie(c, token)

	// 返回
	return a.ok(c, http.StatusOK, echo.Map{
		"login": true,
	})
}

func (a *App) AuthLogout(c echo.Context) error {
	// 清除 cookie ，token 本身不吊销，等它自己过期
	a.clearTokenCookie(c)

	return a.ok(c, http.StatusOK, echo.Map{
		"logout": true,
	})
}

func (a *App) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     constants.JWTCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.jwt.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.isProd,
	})
}

func (a *App) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     constants.JWTCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.isProd,
	})
}
