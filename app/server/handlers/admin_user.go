package handlers

import (
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/password"
)

type adminUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Picture   string `json:"picture"`
	Role      string `json:"role"`
	DeviceID  string `json:"deviceId"`
}

// validate 管理端创建和更新共用的输入校验；更新场景传入被更新用户的 id
func (r *adminUserRequest) validate(ctx context.Context, a *App, excludeID uint) (validationErrors, error) {
	var errs validationErrors

	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Username == "" || r.Password == "" {
		errs.add("firstName, lastName, email, username or password", "body", "Missing required fields.")
	}
	if !isValidEmail(r.Email) {
		errs.add("email", "body", "The email format is not valid.")
	}
	if r.Role != "" && r.Role != models.RoleAdmin && r.Role != models.RoleUser {
		errs.add("role", "body", "The role is not valid.")
	}
	if unique, err := a.isUniqueUsername(ctx, r.Username, excludeID); err != nil {
		return nil, err
	} else if !unique {
		errs.add("username", "body", "The username is already taken.")
	}

	return errs, nil
}

// AdminUserCreate 管理员创建用户，和注册不同的是可以显式指定角色
func (a *App) AdminUserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req adminUserRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 校验输入
	errs, err := req.validate(rctx, a, 0)
	if err != nil {
		a.l.Error("failed to check username", zap.String("username", req.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not create the new user")
	}
	if len(errs) > 0 {
		return a.erValidation(c, errs)
	}

	// 处理密码
	salt, hash, err := password.Hash(req.Password)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not create the new user")
	}

	// 创建用户，角色缺省为普通用户
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Picture:   req.Picture,
		Role:      role,
		Hash:      hash,
		Salt:      salt,
		DeviceID:  req.DeviceID,
	}
	if err := a.db.WithContext(rctx).Create(&user).Error; err != nil {
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not create the new user")
	}

	return a.ok(c, http.StatusCreated, user.AuthorizedData())
}

// AdminUserUpdate 管理员全量更新用户信息，包括角色和密码
func (a *App) AdminUserUpdate(c echo.Context) error {
	rctx := c.Request().Context()

	userID := c.Param("userId")

	// 绑定请求体
	var req adminUserRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 校验输入
	var errs validationErrors
	if !isValidID(userID) {
		errs.add("userId", "params", "User id is not valid")
	}

	// 从数据库中获得指定的用户
	var user models.User
	if len(errs) == 0 {
		if err := a.db.WithContext(rctx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return a.er(c, http.StatusNotFound, "User with specified id not exist")
			}
			a.l.Error("failed to get user", zap.String("id", userID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "Could not update user data")
		}
	}

	bodyErrs, err := req.validate(rctx, a, user.ID)
	if err != nil {
		a.l.Error("failed to check username", zap.String("username", req.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not update user data")
	}
	errs = append(errs, bodyErrs...)
	if len(errs) > 0 {
		return a.erValidation(c, errs)
	}

	// 处理密码
	salt, hash, err := password.Hash(req.Password)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not update user data")
	}

	// 映射字段并保存
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Username = req.Username
	user.Email = req.Email
	user.Picture = req.Picture
	user.Role = role
	user.Hash = hash
	user.Salt = salt
	user.DeviceID = req.DeviceID

	if err := a.db.WithContext(rctx).Save(&user).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not update user data")
	}

	return a.ok(c, http.StatusOK, user.AuthorizedData())
}
