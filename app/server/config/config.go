package config

import (
	"fmt"
	"time"
)

type Config struct {
	System struct {
		IsProd bool   // 是否为生产环境
		Host   string // 监听主机
		Port   string // 监听端口
	}
	DB struct {
		Host     string // Postgres 数据库主机
		Port     string // Postgres 数据库端口
		User     string // 数据库用户
		Password string // 数据库密码
		Name     string // 数据库名
	}
	Security struct {
		PrivateKeyFile string        // RSA 私钥文件路径，用于签发 JWT
		PublicKeyFile  string        // RSA 公钥文件路径，用于校验 JWT
		TokenTTL       time.Duration // JWT 的有效期，同时也是 cookie 的有效期
	}
	Seed struct {
		AdminUsername string // 初始管理员用户名
		AdminPassword string // 初始管理员密码
		AdminEmail    string // 初始管理员邮箱
	}
}

// Listen 返回 echo 使用的监听地址
func (c *Config) Listen() string {
	return fmt.Sprintf("%s:%s", c.System.Host, c.System.Port)
}

// DSN 返回 Postgres 数据库的连接字符串
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name)
}
