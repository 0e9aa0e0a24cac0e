package shortcode

import (
	"crypto/rand"
	"math/big"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultLength 是生成的短码的默认长度
	DefaultLength = 6
)

// Generator 生成随机短码
//
// 生成器本身不保证唯一性，唯一性由数据库的唯一约束兜底；
// 插入冲突时由调用方重新生成并重试。
type Generator struct {
	length int
}

// NewGenerator 创建一个新的短码生成器实例
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// NewCode 使用加密安全的随机数生成器生成一个短码
func (g *Generator) NewCode() (string, error) {
	b := make([]byte, g.length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(Charset))))
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
