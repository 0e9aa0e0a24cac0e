package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// 主配置结构 - 简化命名
type Config struct {
	App       App    `yaml:"app"`
	Server    Server `yaml:"server"`
	Database  DB     `yaml:"database"`
	Cache     Cache  `yaml:"cache"`
	Auth      Auth   `yaml:"auth"`
	RateLimit Limit  `yaml:"rate_limit"`
	Link      Link   `yaml:"link"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port         int `yaml:"port"`
	ReadTimeout  int `yaml:"read_timeout"`
	WriteTimeout int `yaml:"write_timeout"`
}

// 数据库配置
type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// 缓存配置（Redis）
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// 限流配置
type Limit struct {
	Enabled   bool     `yaml:"enabled"`
	Requests  int64    `yaml:"requests_per_minute"`
	Burst     int64    `yaml:"burst"`
	SkipPaths []string `yaml:"skip_paths"`
}

// 短链接业务配置
type Link struct {
	CodeLength        int `yaml:"code_length"`         // 短码长度
	CacheTTLMinutes   int `yaml:"cache_ttl_minutes"`   // 缓存条目的固定 TTL（分钟）
	ExpiryGraceMonths int `yaml:"expiry_grace_months"` // 过期时间宽限期（月）
	CreateMaxRetries  int `yaml:"create_max_retries"`  // 短码冲突的最大重试次数
}

// 加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults 为缺失的短链接配置填充默认值
func (c *Config) applyDefaults() {
	if c.Link.CodeLength <= 0 {
		c.Link.CodeLength = 6
	}
	if c.Link.CacheTTLMinutes <= 0 {
		c.Link.CacheTTLMinutes = 60
	}
	if c.Link.ExpiryGraceMonths <= 0 {
		c.Link.ExpiryGraceMonths = 1
	}
	if c.Link.CreateMaxRetries <= 0 {
		c.Link.CreateMaxRetries = 5
	}
}
