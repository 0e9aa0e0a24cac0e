package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"linkhub-platform/internal/model"
	"linkhub-platform/internal/shortcode"
	"linkhub-platform/internal/store"
	"linkhub-platform/pkg/cache"

	"go.uber.org/zap"
)

// LinkStore 是解析引擎依赖的持久层接口，由 store.LinkStore 实现
type LinkStore interface {
	Create(ctx context.Context, link *model.Link) error
	FindByCode(ctx context.Context, code string) (*model.Link, error)
	FindByOriginalURL(ctx context.Context, rawURL string) ([]model.Link, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.Link, error)
	Replace(ctx context.Context, code string, userID uint, repl *model.Link) (*model.Link, error)
	Delete(ctx context.Context, code string, userID uint) error
	RecordAccess(ctx context.Context, code string, now time.Time) error
	AliasAvailable(ctx context.Context, alias string) (bool, error)
	ExtendAlias(ctx context.Context, alias, originalURL string, userID uint, expiresAt time.Time) (*model.Link, error)
	Stats(ctx context.Context) (*store.Totals, error)
}

// LinkCache 是解析引擎依赖的缓存接口，由 cache.LinkCache 实现
type LinkCache interface {
	Get(ctx context.Context, code string) (*cache.Snapshot, bool)
	Set(ctx context.Context, snap *cache.Snapshot)
	Delete(ctx context.Context, code string)
}

// Resolver 是短链接的解析与变更引擎，实现 cache-aside 策略：
// 读路径先查缓存、未命中回源并回填；写路径先写库、提交后再
// 同步缓存。缓存永远不是可信来源，缓存写入失败不影响结果。
type Resolver struct {
	store       LinkStore
	cache       LinkCache
	gen         *shortcode.Generator
	logger      *zap.SugaredLogger
	graceMonths int
	maxRetries  int
}

// NewResolver 创建解析引擎，所有依赖显式注入
func NewResolver(s LinkStore, c LinkCache, gen *shortcode.Generator, logger *zap.SugaredLogger, graceMonths, maxRetries int) *Resolver {
	if graceMonths <= 0 {
		graceMonths = 1
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Resolver{
		store:       s,
		cache:       c,
		gen:         gen,
		logger:      logger.Named("resolver"),
		graceMonths: graceMonths,
		maxRetries:  maxRetries,
	}
}

// Resolve 把短码解析为目标 URL，并记录本次访问
//
// 缓存命中时同样复查快照里的 expires_at：缓存 TTL（1 小时）可能
// 长于链接自身的有效期，不复查会在 TTL 窗口内放行已过期的链接。
// 统计更新同步执行，点击数在数据库端原子自增，并发解析不丢计数。
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	now := time.Now().UTC()

	if snap, ok := r.cache.Get(ctx, code); ok {
		if snap.ExpiresAt != nil && now.After(*snap.ExpiresAt) {
			return "", ErrGone
		}
		if err := r.store.RecordAccess(ctx, code, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// 缓存落后于删除，清掉脏条目
				r.cache.Delete(ctx, code)
				return "", ErrNotFound
			}
			r.logger.Errorf("更新访问统计失败: %v", err)
			return "", ErrUnavailable
		}
		snap.Clicks++
		snap.LastAccessed = &now
		r.cache.Set(ctx, snap)
		return snap.OriginalURL, nil
	}

	link, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		r.logger.Errorf("查询链接失败: %v", err)
		return "", ErrUnavailable
	}

	if link.Expired(now, r.graceMonths) {
		return "", ErrGone
	}

	if err := r.store.RecordAccess(ctx, code, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// 查到之后被并发删除
			return "", ErrNotFound
		}
		r.logger.Errorf("更新访问统计失败: %v", err)
		return "", ErrUnavailable
	}

	link.Clicks++
	link.LastAccessed = &now
	r.cache.Set(ctx, cache.SnapshotOf(link))
	return link.OriginalURL, nil
}

// CreateParams 创建短链接的入参
type CreateParams struct {
	OriginalURL string
	UserID      uint
	Alias       string
	ExpiresAt   *time.Time
}

// Create 创建一条短链接
//
// 指定别名时冲突直接返回 ErrConflict；系统生成的短码冲突属于
// 内部事件，换码重试有限次后才放弃。唯一性只靠数据库唯一约束
// 判定，不做"先查再插"。
func (r *Resolver) Create(ctx context.Context, p CreateParams) (*model.Link, error) {
	now := time.Now().UTC()
	expiry := r.effectiveExpiry(p.ExpiresAt, now)

	if p.Alias != "" {
		alias := p.Alias
		link := &model.Link{
			ShortCode:   alias,
			CustomAlias: &alias,
			OriginalURL: p.OriginalURL,
			UserID:      p.UserID,
			ExpiresAt:   &expiry,
		}
		if err := r.store.Create(ctx, link); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, ErrConflict
			}
			r.logger.Errorf("创建链接失败: %v", err)
			return nil, ErrUnavailable
		}
		r.cache.Set(ctx, cache.SnapshotOf(link))
		return link, nil
	}

	for i := 0; i < r.maxRetries; i++ {
		code, err := r.gen.NewCode()
		if err != nil {
			r.logger.Errorf("生成短码失败: %v", err)
			return nil, ErrUnavailable
		}
		link := &model.Link{
			ShortCode:   code,
			OriginalURL: p.OriginalURL,
			UserID:      p.UserID,
			ExpiresAt:   &expiry,
		}
		err = r.store.Create(ctx, link)
		if errors.Is(err, store.ErrDuplicateKey) {
			r.logger.Warnf("短码 %s 冲突, 重新生成 (%d/%d)", code, i+1, r.maxRetries)
			continue
		}
		if err != nil {
			r.logger.Errorf("创建链接失败: %v", err)
			return nil, ErrUnavailable
		}
		r.cache.Set(ctx, cache.SnapshotOf(link))
		return link, nil
	}

	r.logger.Errorf("短码冲突重试 %d 次仍未成功", r.maxRetries)
	return nil, ErrUnavailable
}

// CreateCustom 创建自定义别名链接
//
// 别名已被占用时比较过期时间：调用方给出了与现有记录不同的
// 过期时间则原地延长现有记录（唯一不走删旧插新的变更）；
// 原样重复提交则返回 ErrConflict。落库的过期时间一律带宽限期，
// 比较也必须在加完宽限期之后进行，否则原样重复提交永远不相等。
func (r *Resolver) CreateCustom(ctx context.Context, p CreateParams) (*model.Link, error) {
	now := time.Now().UTC()
	expiry := r.effectiveExpiry(p.ExpiresAt, now)

	available, err := r.store.AliasAvailable(ctx, p.Alias)
	if err != nil {
		r.logger.Errorf("检查别名可用性失败: %v", err)
		return nil, ErrUnavailable
	}

	if !available {
		existing, err := r.store.FindByCode(ctx, p.Alias)
		if err != nil {
			r.logger.Errorf("查询别名记录失败: %v", err)
			return nil, ErrUnavailable
		}
		// 未给新过期时间，或加宽限期后与现有记录相同，都算原样重复提交
		if p.ExpiresAt == nil || (existing.ExpiresAt != nil && expiry.Equal(*existing.ExpiresAt)) {
			return nil, ErrConflict
		}
		link, err := r.store.ExtendAlias(ctx, p.Alias, p.OriginalURL, p.UserID, expiry)
		if err != nil {
			r.logger.Errorf("延长别名有效期失败: %v", err)
			return nil, ErrUnavailable
		}
		r.cache.Delete(ctx, p.Alias)
		r.cache.Set(ctx, cache.SnapshotOf(link))
		return link, nil
	}

	return r.Create(ctx, p)
}

// UpdateParams 更新短链接的入参
type UpdateParams struct {
	OriginalURL string
	Alias       string
	ExpiresAt   *time.Time
}

// Update 替换一条短链接：生成新短码、删除旧记录、点击数清零
//
// 旧短码在更新后不再可解析。先提交数据库事务，再让旧缓存
// 条目失效并回填新条目。系统生成的新短码撞库属于内部事件，
// 换码重试；调用方指定的别名撞库才向外返回 ErrConflict。
func (r *Resolver) Update(ctx context.Context, code string, userID uint, p UpdateParams) (*model.Link, error) {
	now := time.Now().UTC()
	expiry := r.effectiveExpiry(p.ExpiresAt, now)

	var customAlias *string
	attempts := r.maxRetries
	if p.Alias != "" {
		customAlias = &p.Alias
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		newCode := p.Alias
		if newCode == "" {
			generated, err := r.gen.NewCode()
			if err != nil {
				r.logger.Errorf("生成短码失败: %v", err)
				return nil, ErrUnavailable
			}
			newCode = generated
		}

		repl := &model.Link{
			ShortCode:   newCode,
			CustomAlias: customAlias,
			OriginalURL: p.OriginalURL,
			ExpiresAt:   &expiry,
		}

		link, err := r.store.Replace(ctx, code, userID, repl)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return nil, ErrNotFound
			case errors.Is(err, store.ErrForbidden):
				return nil, ErrForbidden
			case errors.Is(err, store.ErrDuplicateKey):
				if customAlias != nil {
					return nil, ErrConflict
				}
				r.logger.Warnf("短码 %s 冲突, 重新生成 (%d/%d)", newCode, i+1, attempts)
				continue
			}
			r.logger.Errorf("替换链接失败: %v", err)
			return nil, ErrUnavailable
		}

		r.cache.Delete(ctx, code)
		r.cache.Set(ctx, cache.SnapshotOf(link))
		return link, nil
	}

	r.logger.Errorf("短码冲突重试 %d 次仍未成功", attempts)
	return nil, ErrUnavailable
}

// Delete 删除短链接并让缓存条目失效
func (r *Resolver) Delete(ctx context.Context, code string, userID uint) error {
	if err := r.store.Delete(ctx, code, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, store.ErrForbidden):
			return ErrForbidden
		}
		r.logger.Errorf("删除链接失败: %v", err)
		return ErrUnavailable
	}
	r.cache.Delete(ctx, code)
	return nil
}

// Stats 返回单条链接的使用统计，同样走缓存优先
func (r *Resolver) Stats(ctx context.Context, code string) (*cache.Snapshot, error) {
	if snap, ok := r.cache.Get(ctx, code); ok {
		return snap, nil
	}

	link, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		r.logger.Errorf("查询链接失败: %v", err)
		return nil, ErrUnavailable
	}

	snap := cache.SnapshotOf(link)
	r.cache.Set(ctx, snap)
	return snap, nil
}

// Search 按原始 URL 精确查找链接，先解掉 URL 编码
func (r *Resolver) Search(ctx context.Context, rawURL string) ([]model.Link, error) {
	decoded, err := url.QueryUnescape(rawURL)
	if err != nil {
		decoded = rawURL
	}

	links, err := r.store.FindByOriginalURL(ctx, decoded)
	if err != nil {
		r.logger.Errorf("按 URL 查找失败: %v", err)
		return nil, ErrUnavailable
	}
	return links, nil
}

// List 返回用户自己的全部链接
func (r *Resolver) List(ctx context.Context, userID uint) ([]model.Link, error) {
	links, err := r.store.ListByOwner(ctx, userID)
	if err != nil {
		r.logger.Errorf("查询用户链接失败: %v", err)
		return nil, ErrUnavailable
	}
	return links, nil
}

// Totals 返回全局汇总统计
func (r *Resolver) Totals(ctx context.Context) (*store.Totals, error) {
	totals, err := r.store.Stats(ctx)
	if err != nil {
		r.logger.Errorf("查询汇总统计失败: %v", err)
		return nil, ErrUnavailable
	}
	return totals, nil
}

// effectiveExpiry 计算落库的过期时间
//
// 调用方给定的过期时间统一加上宽限期，保证落库值严格晚于创建
// 时间；未给定时默认 now + 宽限期。
func (r *Resolver) effectiveExpiry(requested *time.Time, now time.Time) time.Time {
	if requested == nil {
		return now.AddDate(0, r.graceMonths, 0)
	}
	return requested.AddDate(0, r.graceMonths, 0)
}
