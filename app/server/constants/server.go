package constants

import "time"

const (
	// APIVersion 所有响应信封中的版本号
	APIVersion = "1.0"

	// JWTCookieName 携带 token 的 cookie 名称
	JWTCookieName = "jwt"

	// AuthTokenDuration 默认的 token 有效期
	AuthTokenDuration = 24 * time.Hour
)

const (
	// 分页参数缺省值
	DefaultPage  = 1
	DefaultLimit = 10
)

const (
	// MaxDBConnections 数据库连接池上限
	MaxDBConnections = 20
)
