package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkhub-platform/internal/model"
	"linkhub-platform/internal/service"
	"linkhub-platform/internal/shortcode"
	"linkhub-platform/internal/store"
	"linkhub-platform/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv 为集成测试初始化一个干净的环境
type testEnv struct {
	router *gin.Engine
	store  *store.LinkStore
	// 模拟认证中间件注入的当前用户
	currentUser uint
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "无法连接到内存数据库")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Link{}, &model.User{}), "数据库迁移失败")

	logger := zap.NewNop().Sugar()
	linkStore := store.NewLinkStore(db)
	// redis 客户端传 nil，缓存退化为空操作
	linkCache := cache.NewLinkCache(nil, time.Hour, logger)
	resolver := service.NewResolver(linkStore, linkCache, shortcode.NewGenerator(6), logger, 1, 5)
	linkHandler := NewShortLinkHandler(resolver)

	env := &testEnv{store: linkStore, currentUser: 1}

	// 测试用认证中间件：直接注入当前用户
	fakeAuth := func(c *gin.Context) {
		c.Set("user_id", env.currentUser)
		c.Next()
	}

	router := gin.New()
	router.GET("/:code", linkHandler.RedirectToOriginal)
	api := router.Group("/api")
	api.Use(fakeAuth)
	{
		api.POST("/shorten", linkHandler.CreateShortLink)
		api.POST("/shorten/custom", linkHandler.CreateCustomLink)
		api.GET("/links/:code/stats", linkHandler.GetLinkStats)
		api.PUT("/links/:code", linkHandler.UpdateLink)
		api.DELETE("/links/:code", linkHandler.DeleteLink)
		api.GET("/search", linkHandler.SearchByURL)
	}

	env.router = router
	return env
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createLink(t *testing.T, body CreateShortLinkRequest) LinkResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/shorten", body)
	require.Equal(t, http.StatusCreated, w.Code, "创建短链接应返回 201: %s", w.Body.String())

	var resp LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ShortCode)
	return resp
}

// TestCreateAndRedirect 创建和重定向的完整流程
func TestCreateAndRedirect(t *testing.T) {
	env := setupTest(t)
	originalURL := "https://www.google.com/very/long/path/that/needs/shortening"

	resp := env.createLink(t, CreateShortLinkRequest{URL: originalURL})
	assert.Len(t, resp.ShortCode, 6)
	assert.EqualValues(t, 0, resp.Clicks)

	w := env.do(http.MethodGet, "/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusFound, w.Code, "访问短码时，状态码应为 302 Found")
	assert.Equal(t, originalURL, w.Header().Get("Location"), "重定向的 URL 应与原始 URL 匹配")
}

func TestRedirectUnknownCode(t *testing.T) {
	env := setupTest(t)

	w := env.do(http.MethodGet, "/nosuch", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirectExpiredLink(t *testing.T) {
	env := setupTest(t)

	// 直接落库一条已过期的链接
	expired := time.Now().UTC().Add(-1 * time.Second)
	require.NoError(t, env.store.Create(context.Background(), &model.Link{
		ShortCode:   "dead01",
		OriginalURL: "https://example.com/dead",
		UserID:      1,
		ExpiresAt:   &expired,
	}))

	w := env.do(http.MethodGet, "/dead01", nil)
	assert.Equal(t, http.StatusGone, w.Code, "过期链接应返回 410 Gone")
}

func TestCreateWithAliasConflict(t *testing.T) {
	env := setupTest(t)

	env.createLink(t, CreateShortLinkRequest{URL: "https://example.com/1", CustomAlias: "promo1"})

	w := env.do(http.MethodPost, "/api/shorten", CreateShortLinkRequest{
		URL: "https://example.com/2", CustomAlias: "promo1",
	})
	assert.Equal(t, http.StatusConflict, w.Code, "重复别名应返回 409")

	// 第一条仍可解析
	w = env.do(http.MethodGet, "/promo1", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/1", w.Header().Get("Location"))
}

func TestUpdateReplacesShortCode(t *testing.T) {
	env := setupTest(t)

	resp := env.createLink(t, CreateShortLinkRequest{URL: "https://example.com/v1"})

	w := env.do(http.MethodPut, "/api/links/"+resp.ShortCode, UpdateLinkRequest{URL: "https://example.com/v2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.NotEqual(t, resp.ShortCode, updated.ShortCode, "更新应产生新短码")

	// 旧短码失效，新短码指向新地址
	w = env.do(http.MethodGet, "/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/"+updated.ShortCode, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/v2", w.Header().Get("Location"))
}

func TestDeleteOwnership(t *testing.T) {
	env := setupTest(t)

	resp := env.createLink(t, CreateShortLinkRequest{URL: "https://example.com/mine"})

	// 切换为其他用户，删除被拒绝
	env.currentUser = 2
	w := env.do(http.MethodDelete, "/api/links/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 链接仍可解析
	w = env.do(http.MethodGet, "/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusFound, w.Code)

	// 归属者删除成功
	env.currentUser = 1
	w = env.do(http.MethodDelete, "/api/links/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/"+resp.ShortCode, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinkStatsEndpoint(t *testing.T) {
	env := setupTest(t)

	resp := env.createLink(t, CreateShortLinkRequest{URL: "https://example.com/stat"})

	env.do(http.MethodGet, "/"+resp.ShortCode, nil)
	env.do(http.MethodGet, "/"+resp.ShortCode, nil)

	w := env.do(http.MethodGet, "/api/links/"+resp.ShortCode+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats LinkStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.Clicks)
	assert.NotNil(t, stats.LastAccessed)
}

func TestSearchEndpoint(t *testing.T) {
	env := setupTest(t)

	env.createLink(t, CreateShortLinkRequest{URL: "https://example.com/searchable"})

	w := env.do(http.MethodGet, "/api/search?url=https%3A%2F%2Fexample.com%2Fsearchable", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var links []LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/searchable", links[0].OriginalURL)

	w = env.do(http.MethodGet, "/api/search?url=https%3A%2F%2Fexample.com%2Fmissing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
