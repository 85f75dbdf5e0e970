package handlers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"virtual-hospital/app/server/jwt"
)

type App struct {
	l      *zap.Logger // 日志
	db     *gorm.DB    // 数据库
	jwt    *jwt.JWT    // JWT ，用于无状态验证
	isProd bool        // 是否为生产环境，决定 cookie 的 secure 属性
}

func NewApp(l *zap.Logger, db *gorm.DB, j *jwt.JWT, isProd bool) *App {
	return &App{
		l:      l,
		db:     db,
		jwt:    j,
		isProd: isProd,
	}
}
