package config

import (
	"strings"
	"time"

	"github.com/hatcher/todoai/assistant"
	"github.com/hatcher/todoai/pkg/cfg"
	"github.com/hatcher/todoai/pkg/hertzx"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/mcpx"
	"github.com/hatcher/todoai/pkg/ormx"
	"github.com/hatcher/todoai/pkg/redisx"
	"github.com/pkg/errors"
)

const EnvPrefix = "TODOAI"

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Web   hertzx.WebConfig   `json:"web" yaml:"web" mapstructure:"web"`
	Log   logs.LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	DB    ormx.DBConfig      `json:"db" yaml:"db" mapstructure:"db"`
	Redis redisx.RedisConfig `json:"redis" yaml:"redis" mapstructure:"redis"`
	AI    AIConfig           `json:"ai" yaml:"ai" mapstructure:"ai"`
	MCP   mcpx.Config        `json:"mcp" yaml:"mcp" mapstructure:"mcp"`
}

type CacheConfig struct {
	Backend    string `json:"backend" yaml:"backend" mapstructure:"backend"`
	TTLSeconds int    `json:"ttlSeconds" yaml:"ttl-seconds" mapstructure:"ttl-seconds"` // 0 表示永不过期
	KeyPrefix  string `json:"keyPrefix" yaml:"key-prefix" mapstructure:"key-prefix"`
}

type AIConfig struct {
	Provider         string      `json:"provider" yaml:"provider" mapstructure:"provider"`
	APIKey           string      `json:"apiKey" yaml:"api-key" mapstructure:"api-key"`
	Model            string      `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL          string      `json:"baseURL" yaml:"base-url" mapstructure:"base-url"`
	Temperature      float64     `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	MaxTokens        int64       `json:"maxTokens" yaml:"max-tokens" mapstructure:"max-tokens"`
	MaxAttempts      int         `json:"maxAttempts" yaml:"max-attempts" mapstructure:"max-attempts"`
	BaseDelayMs      int         `json:"baseDelayMs" yaml:"base-delay-ms" mapstructure:"base-delay-ms"`
	RequestTimeoutMs int         `json:"requestTimeoutMs" yaml:"request-timeout-ms" mapstructure:"request-timeout-ms"`
	Fallback         bool        `json:"fallback" yaml:"fallback" mapstructure:"fallback"`
	Cache            CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
}

func (c *AIConfig) Prepare() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-4"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 500
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelayMs <= 0 {
		c.BaseDelayMs = 1000
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "todoai:ai:"
	}
}

func (c *AIConfig) OpenAI() assistant.OpenAIConfig {
	return assistant.OpenAIConfig{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     time.Duration(c.RequestTimeoutMs) * time.Millisecond,
	}
}

func (c *AIConfig) Options() assistant.Options {
	return assistant.Options{
		MaxAttempts:     c.MaxAttempts,
		BaseDelay:       time.Duration(c.BaseDelayMs) * time.Millisecond,
		DisableFallback: !c.Fallback,
	}
}

func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *Config) Prepare() {
	c.Web.Prepare()
	c.Log.Prepare()
	c.DB.Prepare()
	c.Redis.Prepare()
	c.AI.Prepare()
	c.MCP.Prepare()
}

func (c *Config) Validate() error {
	switch c.AI.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.Errorf("unknown ai cache backend %q", c.AI.Cache.Backend)
	}
	if c.AI.Provider != "openai" {
		return errors.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return errors.Errorf("ai temperature %v out of range [0, 2]", c.AI.Temperature)
	}
	switch c.DB.DbType {
	case ormx.MySQL, ormx.Postgres, ormx.SQLite:
	default:
		return errors.Errorf("unknown db type %q", c.DB.DbType)
	}
	return nil
}

// Masked returns a copy safe to print.
func (c Config) Masked() Config {
	c.AI.APIKey = mask(c.AI.APIKey)
	c.DB.Password = mask(c.DB.Password)
	c.Redis.Password = mask(c.Redis.Password)
	c.Redis.SentinelPassword = mask(c.Redis.SentinelPassword)
	if c.DB.DSN != "" && c.DB.DbType != ormx.SQLite {
		c.DB.DSN = mask(c.DB.DSN)
	}
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}

func defaults() map[string]any {
	return map[string]any{
		"web.host":         "0.0.0.0",
		"web.port":         8000,
		"web.rate-limit":   100,
		"web.cors-origins": []string{},

		"log.level":  "info",
		"log.output": string(logs.Stdout),
		"log.path":   "logs",
		"log.file":   "todoai.log",

		"db.db-type":  "",
		"db.dsn":      "",
		"db.debug":    false,
		"db.host":     "",
		"db.port":     0,
		"db.username": "",
		"db.password": "",
		"db.database": "",

		"redis.redis-type": "standalone",
		"redis.address":    "127.0.0.1:6379",
		"redis.username":   "",
		"redis.password":   "",
		"redis.db":         0,

		"ai.provider":           "openai",
		"ai.api-key":            "",
		"ai.model":              "gpt-4",
		"ai.base-url":           "",
		"ai.temperature":        0.3,
		"ai.max-tokens":         500,
		"ai.max-attempts":       3,
		"ai.base-delay-ms":      1000,
		"ai.request-timeout-ms": 30000,
		"ai.fallback":           true,
		"ai.cache.backend":      CacheMemory,
		"ai.cache.ttl-seconds":  0,
		"ai.cache.key-prefix":   "todoai:ai:",

		"mcp.enabled":   true,
		"mcp.transport": mcpx.TransportStdio,
		"mcp.host":      "0.0.0.0",
		"mcp.port":      3000,
		"mcp.path":      "/mcp",
		"mcp.name":      "todo-mcp-server",
		"mcp.version":   "1.0.0",
		"mcp.stateless": false,
	}
}

// aliases keeps the environment names of earlier deployments working.
var aliases = map[string][]string{
	"db.dsn":         {"DATABASE_URL"},
	"ai.api-key":     {"OPENAI_API_KEY"},
	"ai.model":       {"OPENAI_MODEL"},
	"ai.base-url":    {"OPENAI_BASE_URL"},
	"log.level":      {"LOG_LEVEL"},
	"web.host":       {"API_HOST"},
	"web.port":       {"API_PORT"},
	"web.rate-limit": {"API_RATE_LIMIT"},
	"mcp.enabled":    {"MCP_ENABLED"},
	"mcp.port":       {"MCP_PORT", "MCP_SERVER_PORT"},
}

// Load reads file (optional), .env and the environment, then applies
// defaults and validates.
func Load(file string) (*Config, error) {
	c := &Config{}
	_, err := cfg.LoadConfig(cfg.Options{
		File:      file,
		EnvPrefix: EnvPrefix,
		EnvFiles:  []string{".env"},
		Defaults:  defaults(),
		Aliases:   aliases,
	}, c)
	if err != nil {
		return nil, err
	}
	c.Prepare()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
