package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/query"
)

type paginationData struct {
	Query      string              `json:"query"`
	Sort       string              `json:"sort"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	PageItems  int                 `json:"pageItems"`
	TotalItems int64               `json:"totalItems"`
	TotalPages int64               `json:"totalPages"`
	Items      []models.PublicData `json:"items"`
}

// UserListAll 公开的用户列表，只输出公开字段
func (a *App) UserListAll(c echo.Context) error {
	rctx := c.Request().Context()

	var users []models.User
	if err := a.db.WithContext(rctx).Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not get all user")
	}

	resUsers := []models.PublicData{}
	for i := range users {
		resUsers = append(resUsers, users[i].PublicData())
	}

	return a.ok(c, http.StatusOK, resUsers)
}

// UserPagination 带过滤、排序和分页的公开用户列表。
// query 参数是经过 URI 转义和 base64 编码的过滤表达式，列名使用 snake case 。
func (a *App) UserPagination(c echo.Context) error {
	rctx := c.Request().Context()

	queryParam := c.QueryParam("query")
	sortParam := c.QueryParam("sort")
	pagination := query.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	// 过滤表达式解析失败时记录日志并忽略，不影响请求本身
	var filter *query.Filter
	if queryParam != "" {
		parsed, err := query.Parse(queryParam)
		if err != nil {
			a.l.Error("add query params to query builder error", zap.String("query", queryParam), zap.Error(err))
		} else {
			filter = parsed
		}
	}

	base := func() *gorm.DB {
		tx := a.db.WithContext(rctx).Model(&models.User{})
		if filter != nil {
			tx = filter.Apply(tx)
		}
		return tx
	}

	// 过滤后的总条目数
	var total int64
	if err := base().Count(&total).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not get pagination user data")
	}

	// 当前页的条目
	tx := base()
	if sort := query.ParseSort(sortParam); sort != nil {
		tx = sort.Apply(tx)
	}

	var users []models.User
	if err := tx.Limit(pagination.Limit).Offset(pagination.Offset()).Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not get pagination user data")
	}

	resUsers := []models.PublicData{}
	for i := range users {
		resUsers = append(resUsers, users[i].PublicData())
	}

	sortDisplay := sortParam
	if sortDisplay == "" {
		sortDisplay = "id"
	}

	return a.ok(c, http.StatusOK, &paginationData{
		Query:      queryParam,
		Sort:       sortDisplay,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		PageItems:  len(resUsers),
		TotalItems: total,
		TotalPages: total / int64(pagination.Limit),
		Items:      resUsers,
	})
}

// UserGet 按 id 获取单个用户，输出授权可见的字段
func (a *App) UserGet(c echo.Context) error {
	rctx := c.Request().Context()

	userID := c.Param("userId")

	// 校验输入
	var errs validationErrors
	if !isValidID(userID) {
		errs.add("userId", "params", "User id is not valid")
	}
	if len(errs) > 0 {
		return a.erValidation(c, errs)
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "User with specified id not exist")
		}
		a.l.Error("failed to get user", zap.String("id", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not get user data")
	}

	return a.ok(c, http.StatusOK, user.AuthorizedData())
}

func (a *App) UserDelete(c echo.Context) error {
	rctx := c.Request().Context()

	userID := c.Param("userId")

	// 校验输入
	if !isValidID(userID) {
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 删除用户
	if err := a.db.WithContext(rctx).Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		a.l.Error("failed to delete user", zap.String("id", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not delete user data")
	}

	return a.ok(c, http.StatusOK, echo.Map{
		"deleted": true,
	})
}

type devicePatchRequest struct {
	DeviceID string `json:"deviceId"`
}

// UserDevicePatch 更新用户关联的 IoT 设备 id
func (a *App) UserDevicePatch(c echo.Context) error {
	rctx := c.Request().Context()

	userID := c.Param("userId")

	// 绑定请求体
	var req devicePatchRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Failed during input validation")
	}

	// 校验输入
	var errs validationErrors
	if !isValidID(userID) {
		errs.add("userId", "params", "User id is not valid")
	}
	if req.DeviceID == "" {
		errs.add("deviceId", "body", "Missing required fields.")
	}
	if len(errs) > 0 {
		return a.erValidation(c, errs)
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "User with specified id not exist")
		}
		a.l.Error("failed to get user", zap.String("id", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not patch user device Id")
	}

	// 更新设备 id
	if err := a.db.WithContext(rctx).Model(&user).Update("device_id", req.DeviceID).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "Could not patch user device Id")
	}

	return a.ok(c, http.StatusOK, user.AuthorizedData())
}
