package cfg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Options struct {
	// File 配置文件路径，为空时只使用默认值和环境变量
	File string
	// EnvPrefix 环境变量前缀，如 TODOAI 对应 TODOAI_DB_DSN
	EnvPrefix string
	// EnvFiles 启动前加载的 .env 文件，不存在时忽略
	EnvFiles []string
	// Defaults 默认值，同时让 viper 知道哪些键可以从环境变量读取
	Defaults map[string]any
	// Aliases 额外的环境变量名，key 为配置键
	Aliases map[string][]string
}

// LoadConfig 加载配置文件与环境变量并解析到 ptr
func LoadConfig(opts Options, ptr interface{}) (*viper.Viper, error) {
	for _, f := range opts.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.WithMessagef(err, "读取环境变量文件失败：%s", f)
		}
	}

	v := viper.New()
	for k, val := range opts.Defaults {
		v.SetDefault(k, val)
	}
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range opts.Aliases {
		// 前缀变量优先，其次是别名
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.WithMessagef(err, "绑定环境变量失败：%s", key)
		}
		if opts.EnvPrefix != "" {
			prefixed := strings.ToUpper(opts.EnvPrefix + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(key))
			if val, ok := os.LookupEnv(prefixed); ok {
				v.Set(key, val)
			}
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if ext := strings.TrimPrefix(filepath.Ext(opts.File), "."); ext != "" {
			v.SetConfigType(ext)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "读取配置文件失败，配置文件：%s", opts.File)
		}
	}
	if err := v.Unmarshal(ptr); err != nil {
		return nil, errors.WithMessagef(err, "解析配置文件失败，配置文件：%s", opts.File)
	}
	return v, nil
}
