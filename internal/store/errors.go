package store

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("store: record not found")
	// ErrForbidden 记录不属于当前用户
	ErrForbidden = errors.New("store: owner mismatch")
	// ErrDuplicateKey 唯一约束冲突
	ErrDuplicateKey = errors.New("store: duplicate key")
)
