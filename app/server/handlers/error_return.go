package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"virtual-hospital/app/server/constants"
	"virtual-hospital/app/server/types"
)

func (a *App) ok(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, &types.Response{
		APIVersion: constants.APIVersion,
		Data:       data,
	})
}

func (a *App) er(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &types.Response{
		APIVersion: constants.APIVersion,
		Error: &types.ErrorBody{
			Code:    statusCode,
			Message: message,
		},
	})
}

func (a *App) erValidation(c echo.Context, errs []types.ErrorItem) error {
	return c.JSON(http.StatusBadRequest, &types.Response{
		APIVersion: constants.APIVersion,
		Error: &types.ErrorBody{
			Code:    http.StatusBadRequest,
			Message: "Failed during input validation",
			Errors:  errs,
		},
	})
}

// HTTPErrorHandler 兜底的错误处理：未匹配的路由和没有被处理的错误也返回统一的信封
func (a *App) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	he := &echo.HTTPError{}
	if errors.As(err, &he) {
		statusCode = he.Code
	}

	switch statusCode {
	case http.StatusNotFound:
		_ = a.er(c, statusCode, "Not Found!")
	default:
		if statusCode >= http.StatusInternalServerError {
			a.l.Error("unhandled error", zap.String("URI", c.Request().RequestURI), zap.Error(err))
		}
		_ = a.er(c, statusCode, http.StatusText(statusCode))
	}
}
