package service

import "errors"

// 对外错误分类，handler 据此映射 HTTP 状态码
var (
	// ErrNotFound 短码不存在
	ErrNotFound = errors.New("service: link not found")
	// ErrGone 链接已过期
	ErrGone = errors.New("service: link expired")
	// ErrForbidden 非链接归属者执行变更
	ErrForbidden = errors.New("service: not the link owner")
	// ErrConflict 别名已被占用或重复提交
	ErrConflict = errors.New("service: alias conflict")
	// ErrUnavailable 存储暂时不可用或内部重试耗尽
	ErrUnavailable = errors.New("service: temporarily unavailable")
)
