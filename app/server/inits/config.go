package inits

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
	"time"
	"virtual-hospital/app/server/config"
	"virtual-hospital/app/server/constants"
)

func Config() (*config.Config, error) {
	// 尝试加载 .env 文件，不存在时直接使用环境变量
	_ = godotenv.Load()

	cfg := &config.Config{}

	// 手动配置映射，如果这里有什么自动映射工具就好了
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if host, exist := os.LookupEnv("SERVER_HOST"); exist {
		cfg.System.Host = host
	}

	if port, exist := os.LookupEnv("SERVER_PORT"); !exist {
		cfg.System.Port = "8000" // 默认监听端口
	} else {
		cfg.System.Port = port
	}

	if dbHost, exist := os.LookupEnv("DB_HOST"); !exist {
		return nil, fmt.Errorf("DB_HOST environment variable not set")
	} else {
		cfg.DB.Host = dbHost
	}

	if dbPort, exist := os.LookupEnv("DB_PORT"); !exist {
		cfg.DB.Port = "5432"
	} else {
		cfg.DB.Port = dbPort
	}

	if dbUser, exist := os.LookupEnv("DB_USER"); !exist {
		return nil, fmt.Errorf("DB_USER environment variable not set")
	} else {
		cfg.DB.User = dbUser
	}

	if dbPassword, exist := os.LookupEnv("DB_PASSWORD"); !exist {
		return nil, fmt.Errorf("DB_PASSWORD environment variable not set")
	} else {
		cfg.DB.Password = dbPassword
	}

	if dbName, exist := os.LookupEnv("DB_NAME"); !exist {
		return nil, fmt.Errorf("DB_NAME environment variable not set")
	} else {
		cfg.DB.Name = dbName
	}

	if privateKeyFile, exist := os.LookupEnv("JWT_PRIVATE_KEY_FILE"); !exist {
		cfg.Security.PrivateKeyFile = "keys/id_rsa_priv.pem"
	} else {
		cfg.Security.PrivateKeyFile = privateKeyFile
	}

	if publicKeyFile, exist := os.LookupEnv("JWT_PUBLIC_KEY_FILE"); !exist {
		cfg.Security.PublicKeyFile = "keys/id_rsa_pub.pem"
	} else {
		cfg.Security.PublicKeyFile = publicKeyFile
	}

	if ttl, exist := os.LookupEnv("TOKEN_TTL_HOURS"); !exist {
		cfg.Security.TokenTTL = constants.AuthTokenDuration
	} else if hours, err := strconv.Atoi(ttl); err != nil || hours <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_HOURS environment variable is not a valid hour count: %s", ttl)
	} else {
		cfg.Security.TokenTTL = time.Duration(hours) * time.Hour
	}

	if adminUsername, exist := os.LookupEnv("ADMIN_USERNAME"); !exist {
		cfg.Seed.AdminUsername = "admin"
	} else {
		cfg.Seed.AdminUsername = adminUsername
	}

	if adminPassword, exist := os.LookupEnv("ADMIN_PASSWORD"); !exist {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable not set")
	} else {
		cfg.Seed.AdminPassword = adminPassword
	}

	if adminEmail, exist := os.LookupEnv("ADMIN_EMAIL"); !exist {
		cfg.Seed.AdminEmail = "admin@example.com"
	} else {
		cfg.Seed.AdminEmail = adminEmail
	}

	return cfg, nil
}
