package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"
)

// GenerateURLToken 生成 URL-safe 的随机 token，长度约为 4/3*n 字符
// n 为原始随机字节数，推荐 24 或 32
func GenerateURLToken(n int) (string, error) {
	if n <= 0 {
		n = 24
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// 使用 RawURLEncoding，避免出现 '=' 填充与 '+' '/' 字符
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewInvoiceReference 生成人类可读的发票编号，如 INV-2026-4823
func NewInvoiceReference(now time.Time) string {
	return fmt.Sprintf("INV-%d-%04d", now.Year(), 1000+randomInt(9000))
}

// NewTicketReference 生成工单编号，如 TCK-4823
func NewTicketReference() string {
	return fmt.Sprintf("TCK-%04d", 1000+randomInt(9000))
}

// randomInt 返回 [0, max) 区间的随机整数，失败时退化为 0
func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0
	}
	return n.Int64()
}
