package handler

import (
	"errors"
	"net/http"
	"time"

	"linkhub-platform/internal/model"
	"linkhub-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// ShortLinkHandler 链接相关的 HTTP 处理器，只依赖解析引擎
type ShortLinkHandler struct {
	resolver *service.Resolver
}

// NewShortLinkHandler 创建处理器实例
func NewShortLinkHandler(resolver *service.Resolver) *ShortLinkHandler {
	return &ShortLinkHandler{resolver: resolver}
}

// HealthCheck 健康检查
func (h *ShortLinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// CreateShortLinkRequest 创建短链接的请求体
type CreateShortLinkRequest struct {
	URL         string     `json:"url" binding:"required,url" example:"https://github.com/gin-gonic/gin"`
	CustomAlias string     `json:"custom_alias,omitempty" binding:"omitempty,alphanum,max=64" example:"mylink"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// LinkResponse 短链接的统一响应结构
type LinkResponse struct {
	ID          uint       `json:"id"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	CustomAlias *string    `json:"custom_alias,omitempty"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ShortURL    string     `json:"short_url" example:"http://localhost:8080/xxxxxx"`
}

func linkResponse(c *gin.Context, link *model.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		CustomAlias: link.CustomAlias,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		ShortURL:    "http://" + c.Request.Host + "/" + link.ShortCode,
	}
}

// CreateShortLink godoc
// @Summary 创建短链接
// @Description 为一个长 URL 创建一个新的短链接，可选指定别名和过期时间
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   link  body   CreateShortLinkRequest  true  "长链接 URL"
// @Success 201 {object} LinkResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 409 {object} gin.H "别名已被占用"
// @Router /api/shorten [post]
func (h *ShortLinkHandler) CreateShortLink(c *gin.Context) {
	var req CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	link, err := h.resolver.Create(c.Request.Context(), service.CreateParams{
		OriginalURL: req.URL,
		UserID:      currentUserID(c),
		Alias:       req.CustomAlias,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, linkResponse(c, link))
}

// CreateCustomLink godoc
// @Summary 创建自定义别名链接
// @Description 为链接指定自定义别名；别名已存在且过期时间不同时延长现有记录
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   link  body   CreateShortLinkRequest  true  "别名与长链接"
// @Success 201 {object} LinkResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 409 {object} gin.H "别名已被占用且过期时间未变化"
// @Router /api/shorten/custom [post]
func (h *ShortLinkHandler) CreateCustomLink(c *gin.Context) {
	var req CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	if req.CustomAlias == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "创建自定义链接必须指定别名"})
		return
	}

	link, err := h.resolver.CreateCustom(c.Request.Context(), service.CreateParams{
		OriginalURL: req.URL,
		UserID:      currentUserID(c),
		Alias:       req.CustomAlias,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, linkResponse(c, link))
}

// RedirectToOriginal godoc
// @Summary 短码重定向
// @Description 按短码重定向到原始 URL
// @Tags ShortLink
// @Param   code  path  string  true  "短码"
// @Success 302 "重定向"
// @Failure 404 {object} gin.H "链接不存在"
// @Failure 410 {object} gin.H "链接已过期"
// @Router /{code} [get]
func (h *ShortLinkHandler) RedirectToOriginal(c *gin.Context) {
	code := c.Param("code")

	target, err := h.resolver.Resolve(c.Request.Context(), code)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// UpdateLinkRequest 更新短链接的请求体
type UpdateLinkRequest struct {
	URL         string     `json:"url,omitempty" binding:"omitempty,url"`
	CustomAlias string     `json:"custom_alias,omitempty" binding:"omitempty,alphanum,max=64"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateLink godoc
// @Summary 更新短链接
// @Description 替换旧链接：生成新短码并删除旧记录，旧短码随即失效
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   code  path  string             true  "旧短码"
// @Param   link  body  UpdateLinkRequest  true  "更新内容"
// @Success 200 {object} LinkResponse "成功响应"
// @Failure 403 {object} gin.H "无权操作"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/links/{code} [put]
func (h *ShortLinkHandler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	link, err := h.resolver.Update(c.Request.Context(), c.Param("code"), currentUserID(c), service.UpdateParams{
		OriginalURL: req.URL,
		Alias:       req.CustomAlias,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, linkResponse(c, link))
}

// DeleteLink godoc
// @Summary 删除短链接
// @Description 删除自己的短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Param   code  path  string  true  "短码"
// @Success 204 "删除成功"
// @Failure 403 {object} gin.H "无权操作"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/links/{code} [delete]
func (h *ShortLinkHandler) DeleteLink(c *gin.Context) {
	if err := h.resolver.Delete(c.Request.Context(), c.Param("code"), currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkStatsResponse 单条链接的统计响应
type LinkStatsResponse struct {
	OriginalURL  string     `json:"original_url"`
	ShortCode    string     `json:"short_code"`
	Clicks       int64      `json:"clicks"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// GetLinkStats godoc
// @Summary 查询链接统计
// @Description 查询单条链接的点击数和最后访问时间
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   code  path  string  true  "短码"
// @Success 200 {object} LinkStatsResponse "成功响应"
// @Failure 404 {object} gin.H "链接不存在"
// @Router /api/links/{code}/stats [get]
func (h *ShortLinkHandler) GetLinkStats(c *gin.Context) {
	snap, err := h.resolver.Stats(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, LinkStatsResponse{
		OriginalURL:  snap.OriginalURL,
		ShortCode:    snap.ShortCode,
		Clicks:       snap.Clicks,
		LastAccessed: snap.LastAccessed,
		ExpiresAt:    snap.ExpiresAt,
	})
}

// SearchByURL godoc
// @Summary 按原始 URL 查找
// @Description 按原始 URL 精确查找已创建的短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   url  query  string  true  "原始 URL"
// @Success 200 {array} LinkResponse "成功响应"
// @Failure 404 {object} gin.H "未找到链接"
// @Router /api/search [get]
func (h *ShortLinkHandler) SearchByURL(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 url 查询参数"})
		return
	}

	links, err := h.resolver.Search(c.Request.Context(), rawURL)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if len(links) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "未找到对应的链接"})
		return
	}

	resp := make([]LinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, linkResponse(c, &links[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyLinks godoc
// @Summary 我的链接
// @Description 返回当前用户创建的全部链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {array} LinkResponse "成功响应"
// @Router /api/links [get]
func (h *ShortLinkHandler) GetMyLinks(c *gin.Context) {
	links, err := h.resolver.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]LinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, linkResponse(c, &links[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary 全局统计
// @Description 返回链接总数与总点击数
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} store.Totals "成功响应"
// @Router /api/stats [get]
func (h *ShortLinkHandler) GetStats(c *gin.Context) {
	totals, err := h.resolver.Totals(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// renderError 把服务层错误映射为 HTTP 状态码
func (h *ShortLinkHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "链接不存在"})
	case errors.Is(err, service.ErrGone):
		c.JSON(http.StatusGone, gin.H{"error": "链接已过期"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "无权操作该链接"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "别名已被占用"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务暂时不可用，请稍后再试"})
	}
}

// currentUserID 从上下文中取出认证中间件写入的用户 ID
func currentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
