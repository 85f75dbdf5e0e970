package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"os"
	"time"
)

type JWT struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
}

type User struct {
	ID      uint
	Expires int64 // Unix second
}

func New(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration) (*JWT, error) {
	if privateKey == nil || publicKey == nil {
		return nil, errors.New("key is empty")
	}

	return &JWT{privateKey: privateKey, publicKey: publicKey, ttl: ttl}, nil
}

// NewFromFiles 从 PEM 文件中加载密钥对，进程启动时调用一次
func NewFromFiles(privateKeyFile string, publicKeyFile string, ttl time.Duration) (*JWT, error) {
	privPEM, err := os.ReadFile(privateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read private key failed: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key failed: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read public key failed: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key failed: %w", err)
	}

	return New(privateKey, publicKey, ttl)
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) SignToken(userID uint) (string, error) {
	// 创建声明
	now := time.Now()
	claims := jwt.MapClaims{
		"data": map[string]interface{}{
			"user_id": userID,
		},
		"iat": now.Unix(),
		"exp": now.Add(j.ttl).Unix(),
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	// 签名并返回
	return token.SignedString(j.privateKey)
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, errors.New("token string is empty")
	}

	// 校验签名
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse jwt failed: %w", err)
	}

	// 映射字段
	user := &User{}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		data, ok := claims["data"].(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid token payload")
		}
		id, ok := data["user_id"].(float64)
		if !ok {
			return nil, errors.New("invalid token payload")
		}
		exp, ok := claims["exp"].(float64)
		if !ok {
			return nil, errors.New("invalid token payload")
		}
		user.ID = uint(id)
		user.Expires = int64(exp)
	} else {
		return nil, fmt.Errorf("invalid token")
	}

	// 签名校验之外再显式检查一次过期时间
	if time.Now().Unix() >= user.Expires {
		return nil, errors.New("token expired")
	}

	return user, nil
}
