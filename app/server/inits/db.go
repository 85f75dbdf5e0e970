package inits

import (
	"fmt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"virtual-hospital/app/server/config"
	"virtual-hospital/app/server/constants"
	"virtual-hospital/app/server/models"
	"virtual-hospital/app/server/password"
)

func DB(cfg *config.Config) (db *gorm.DB, err error) {
	// 打开连接
	if db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 限制连接池大小
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(constants.MaxDBConnections)

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
	)
}

func initData(db *gorm.DB, cfg *config.Config) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化管理员
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 { // 没有任何用户，添加初始管理员
		// 创建密码
		salt, hash, err := password.Hash(cfg.Seed.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.User{
			FirstName: "Admin",
			LastName:  "User",
			Username:  cfg.Seed.AdminUsername,
			Email:     cfg.Seed.AdminEmail,
			Role:      models.RoleAdmin,
			Hash:      hash,
			Salt:      salt,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// 已有数据或全部导入成功
	return nil
}
