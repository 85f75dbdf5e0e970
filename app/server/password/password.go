package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"golang.org/x/crypto/pbkdf2"
)

// 导出参数需要和旧版数据保持一致，否则已有用户无法登录
const (
	saltBytes  = 32
	iterations = 10000
	keyLength  = 64
)

// Hash 为明文密码生成随机盐并导出散列，盐和散列都以 hex 编码返回
func Hash(password string) (salt string, hash string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err = rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("generate salt failed: %w", err)
	}

	// 注意：参与导出的是 hex 编码后的盐
	salt = hex.EncodeToString(rawSalt)
	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)

	return salt, hex.EncodeToString(digest), nil
}

// Verify 使用储存的盐重新导出散列，并和储存的散列作常数时间比较
func Verify(password string, hash string, salt string) bool {
	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)

	return subtle.ConstantTimeCompare(digest, expected) == 1
}
