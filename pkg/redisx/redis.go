package redisx

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Address  string `json:"address" mapstructure:"address" yaml:"address"`
	Username string `json:"username" mapstructure:"username" yaml:"username"`
	Password string `json:"password" mapstructure:"password" yaml:"password"`
	DB       int    `json:"db" mapstructure:"db" yaml:"db"`
	UseTLS   bool   `json:"useTLS" mapstructure:"use-tls" yaml:"use-tls"`
	// InsecureSkipVerify 仅用于测试环境的自签名证书
	InsecureSkipVerify bool   `json:"insecureSkipVerify" mapstructure:"insecure-skip-verify" yaml:"insecure-skip-verify"`
	RedisType          string `json:"redisType" mapstructure:"redis-type" yaml:"redis-type"` // standalone|cluster|sentinel|miniredis
	MasterName         string `json:"masterName" mapstructure:"master-name" yaml:"master-name"`
	SentinelUsername   string `json:"sentinelUsername" mapstructure:"sentinel-username" yaml:"sentinel-username"`
	SentinelPassword   string `json:"sentinelPassword" mapstructure:"sentinel-password" yaml:"sentinel-password"`
	DialTimeout        int    `json:"dialTimeout" mapstructure:"dial-timeout" yaml:"dial-timeout"` // 毫秒
}

func (cfg *RedisConfig) Prepare() {
	cfg.RedisType = strings.ToLower(strings.TrimSpace(cfg.RedisType))
	if cfg.RedisType == "" {
		cfg.RedisType = "standalone"
	}
	if cfg.Address == "" && cfg.RedisType != "miniredis" {
		cfg.Address = "127.0.0.1:6379"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5000
	}
}

func (cfg *RedisConfig) tlsConfig() *tls.Config {
	if !cfg.UseTLS {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec
	}
}

type Redis redis.UniversalClient

// NewRedis 按类型创建客户端并 ping 一次，返回的 closer 负责释放连接(以及内嵌的 miniredis)
func NewRedis(ctx context.Context, cfg RedisConfig) (Redis, func() error, error) {
	var (
		client Redis
		mini   *miniredis.Miniredis
	)
	dialTimeout := time.Duration(cfg.DialTimeout) * time.Millisecond

	switch cfg.RedisType {
	case "standalone", "":
		client = redis.NewClient(&redis.Options{
			Addr:        cfg.Address,
			Username:    cfg.Username,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: dialTimeout,
			TLSConfig:   cfg.tlsConfig(),
		})

	case "cluster":
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       strings.Split(cfg.Address, ","),
			Username:    cfg.Username,
			Password:    cfg.Password,
			DialTimeout: dialTimeout,
			TLSConfig:   cfg.tlsConfig(),
		})

	case "sentinel":
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    strings.Split(cfg.Address, ","),
			Username:         cfg.Username,
			Password:         cfg.Password,
			DB:               cfg.DB,
			SentinelUsername: cfg.SentinelUsername,
			SentinelPassword: cfg.SentinelPassword,
			DialTimeout:      dialTimeout,
			TLSConfig:        cfg.tlsConfig(),
		})

	case "miniredis":
		s, err := miniredis.Run()
		if err != nil {
			return nil, nil, errors.WithMessage(err, "failed to start miniredis")
		}
		mini = s
		client = redis.NewClient(&redis.Options{Addr: s.Addr()})

	default:
		return nil, nil, errors.Errorf("illegal redis type: %s", cfg.RedisType)
	}

	closer := func() error {
		err := client.Close()
		if mini != nil {
			mini.Close()
		}
		return err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = closer()
		return nil, nil, errors.WithMessagef(err, "failed to ping redis %s", cfg.Address)
	}
	logs.Infof("redis connected, type: %s", cfg.RedisType)
	return client, closer, nil
}
