package model

import (
	"time"
)

// Link 短链接模型
//
// short_code 是解析入口，全局唯一；custom_alias 为用户自定义短码，
// 存在时与 short_code 相同。last_accessed 在首次访问前为空。
type Link struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	ShortCode    string     `gorm:"size:64;uniqueIndex;not null" json:"short_code"`
	CustomAlias  *string    `gorm:"size:64;uniqueIndex" json:"custom_alias,omitempty"`
	OriginalURL  string     `gorm:"type:text;not null" json:"original_url"`
	Clicks       int64      `gorm:"default:0" json:"clicks"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// TableName 指定表名
func (Link) TableName() string {
	return "links"
}

// EffectiveExpiry 计算链接的有效过期时间
//
// expires_at 缺失时回退到 created_at + grace；created_at 也缺失时
// 视为永不过期，返回零值。
func (l *Link) EffectiveExpiry(graceMonths int) time.Time {
	if l.ExpiresAt != nil {
		return *l.ExpiresAt
	}
	if !l.CreatedAt.IsZero() {
		return l.CreatedAt.AddDate(0, graceMonths, 0)
	}
	return time.Time{}
}

// Expired 判断链接在 now 时刻是否已过期
func (l *Link) Expired(now time.Time, graceMonths int) bool {
	expiry := l.EffectiveExpiry(graceMonths)
	return !expiry.IsZero() && now.After(expiry)
}
