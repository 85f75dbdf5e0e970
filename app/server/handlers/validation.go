package handlers

import (
	"context"
	"regexp"
	"strconv"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/types"
)

// validationErrors 收集一次请求中的所有输入错误，一并返回给客户端
type validationErrors []types.ErrorItem

func (v *validationErrors) add(location string, locationType string, message string) {
	*v = append(*v, types.ErrorItem{
		Location:     location,
		LocationType: locationType,
		Message:      message,
	})
}

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func isValidID(id string) bool {
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

// isUniqueUsername 检查用户名是否可用；更新场景下通过 excludeID 排除自身。
// 先查再插，并发注册时存在很小的竞争窗口，最终由唯一索引兜底。
func (a *App) isUniqueUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64

	tx := a.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}

	return count == 0, nil
}
