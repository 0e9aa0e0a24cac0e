package store

import (
	"context"
	"errors"
	"time"

	"linkhub-platform/internal/model"

	"gorm.io/gorm"
)

// LinkStore 负责 links 表的持久化操作，是链接数据的唯一可信来源。
// 所有唯一性与归属检查都在这一层完成。
type LinkStore struct {
	db *gorm.DB
}

// NewLinkStore 创建链接存储实例
func NewLinkStore(db *gorm.DB) *LinkStore {
	return &LinkStore{db: db}
}

// Create 插入一条新链接
//
// 唯一约束冲突统一返回 ErrDuplicateKey，由上层根据是否为
// 用户指定别名决定向外暴露的错误类型。
func (s *LinkStore) Create(ctx context.Context, link *model.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// FindByCode 按短码查找链接
func (s *LinkStore) FindByCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// FindByOriginalURL 按原始 URL 精确查找链接，可能返回多条
func (s *LinkStore) FindByOriginalURL(ctx context.Context, rawURL string) ([]model.Link, error) {
	var links []model.Link
	err := s.db.WithContext(ctx).Where("original_url = ?", rawURL).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ListByOwner 返回某个用户的全部链接，按创建时间倒序
func (s *LinkStore) ListByOwner(ctx context.Context, userID uint) ([]model.Link, error) {
	var links []model.Link
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Replace 以"删旧插新"的方式替换一条链接，整个过程在一个事务内完成
//
// 旧记录不存在返回 ErrNotFound，归属不匹配返回 ErrForbidden；
// 新记录未指定原始 URL 时沿用旧记录的。插入失败时事务整体回滚，
// 旧记录保持原样。
func (s *LinkStore) Replace(ctx context.Context, code string, userID uint, repl *model.Link) (*model.Link, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old model.Link
		if err := tx.Where("short_code = ?", code).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if old.UserID != userID {
			return ErrForbidden
		}

		if err := tx.Delete(&model.Link{}, old.ID).Error; err != nil {
			return err
		}

		if repl.OriginalURL == "" {
			repl.OriginalURL = old.OriginalURL
		}
		repl.UserID = userID
		repl.Clicks = 0
		if err := tx.Create(repl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateKey
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repl, nil
}

// Delete 删除链接，先校验存在性和归属
func (s *LinkStore) Delete(ctx context.Context, code string, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link model.Link
		if err := tx.Where("short_code = ?", code).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if link.UserID != userID {
			return ErrForbidden
		}
		return tx.Delete(&model.Link{}, link.ID).Error
	})
}

// RecordAccess 记录一次成功解析：点击数 +1 并刷新最后访问时间
//
// 自增在数据库端以单条 UPDATE 完成，并发解析同一短码时不会丢失计数。
func (s *LinkStore) RecordAccess(ctx context.Context, code string, now time.Time) error {
	result := s.db.WithContext(ctx).Model(&model.Link{}).
		Where("short_code = ?", code).
		Updates(map[string]interface{}{
			"clicks":        gorm.Expr("clicks + 1"),
			"last_accessed": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AliasAvailable 检查别名是否尚未被占用
func (s *LinkStore) AliasAvailable(ctx context.Context, alias string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Link{}).
		Where("short_code = ?", alias).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ExtendAlias 原地更新一条已存在的别名记录
//
// 这是唯一一处不走"删旧插新"的变更：别名被占用但调用方给出了
// 不同的过期时间时，直接延长现有记录。
func (s *LinkStore) ExtendAlias(ctx context.Context, alias, originalURL string, userID uint, expiresAt time.Time) (*model.Link, error) {
	var link model.Link
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("short_code = ?", alias).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		link.OriginalURL = originalURL
		link.UserID = userID
		link.ExpiresAt = &expiresAt
		return tx.Save(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Totals 汇总统计
type Totals struct {
	TotalLinks  int64 `json:"total_links"`
	TotalClicks int64 `json:"total_clicks"`
}

// Stats 返回全局汇总统计
func (s *LinkStore) Stats(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.db.WithContext(ctx).Model(&model.Link{}).Count(&t.TotalLinks).Error; err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&model.Link{}).
		Select("COALESCE(SUM(clicks), 0)").
		Scan(&t.TotalClicks).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
