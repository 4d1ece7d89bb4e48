package ormx

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DBConfig 数据库配置
type DBConfig struct {
	Debug              bool   `yaml:"debug" json:"debug" mapstructure:"debug"`
	DbType             string `yaml:"db-type" json:"dbType" mapstructure:"db-type"`
	DSN                string `yaml:"dsn" json:"dsn" mapstructure:"dsn"`
	Host               string `yaml:"host" json:"host" mapstructure:"host"`
	Port               int    `yaml:"port" json:"port" mapstructure:"port"`
	Username           string `yaml:"username" json:"username" mapstructure:"username"`
	Password           string `yaml:"password" json:"password" mapstructure:"password"`
	Database           string `yaml:"database" json:"database" mapstructure:"database"`
	Charset            string `yaml:"charset" json:"charset" mapstructure:"charset"`
	AppendParams       string `yaml:"append-params" json:"appendParams" mapstructure:"append-params"`
	MaxLifetime        int    `yaml:"max-lifetime" json:"maxLifetime" mapstructure:"max-lifetime"`
	MaxOpenConnections int    `yaml:"max-open-connections" json:"maxOpenConnections" mapstructure:"max-open-connections"`
	MaxIdleConnections int    `yaml:"max-idle-connections" json:"maxIdleConnections" mapstructure:"max-idle-connections"`
	SlowThreshold      int    `yaml:"slow-threshold" json:"slowThreshold" mapstructure:"slow-threshold"` // 慢查询阈值, 毫秒
	TablePrefix        string `yaml:"table-prefix" json:"tablePrefix" mapstructure:"table-prefix"`
}

// Prepare 填充默认值, 未指定类型时根据 DSN 推断
func (c *DBConfig) Prepare() {
	if c.DbType == "" {
		c.DbType = detectDbType(c.DSN)
	}
	c.DbType = strings.ToLower(c.DbType)
	if c.DbType == "postgresql" {
		c.DbType = Postgres
	}
	if c.DbType == SQLite && c.DSN == "" {
		c.DSN = c.Database
		if c.DSN == "" {
			c.DSN = "todos.db"
		}
	}
	if c.MaxOpenConnections <= 0 {
		c.MaxOpenConnections = 10
	}
	if c.MaxIdleConnections <= 0 {
		c.MaxIdleConnections = 1
	}
	if c.MaxLifetime <= 0 {
		c.MaxLifetime = 3600
	}
	if c.SlowThreshold <= 0 {
		c.SlowThreshold = 200
	}
	// 内存数据库的每个连接都是独立的库
	if c.DbType == SQLite && strings.Contains(c.DSN, ":memory:") {
		c.MaxOpenConnections = 1
		c.MaxIdleConnections = 1
		c.MaxLifetime = 0
	}
}

func detectDbType(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres
	case strings.HasPrefix(dsn, "mysql://"), strings.Contains(dsn, "@tcp("):
		return MySQL
	default:
		return SQLite
	}
}

// GetDSN 获取数据库连接字符串
func (c *DBConfig) GetDSN() string {
	switch c.DbType {
	case SQLite:
		return strings.TrimPrefix(c.DSN, "sqlite:///")
	case Postgres:
		if c.DSN != "" {
			return c.DSN
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database)
		if c.AppendParams == "" {
			return dsn + " sslmode=disable"
		}
		return dsn + " " + c.AppendParams
	default:
		if c.DSN != "" {
			return strings.TrimPrefix(c.DSN, "mysql://")
		}
		if c.AppendParams == "" {
			c.AppendParams = "parseTime=True&loc=Local"
		}
		if c.Charset != "" && !strings.Contains(c.AppendParams, "charset") {
			c.AppendParams += fmt.Sprintf("&charset=%s", c.Charset)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.Database,
			c.AppendParams,
		)
	}
}

// Dialector 根据类型选择驱动
func (c *DBConfig) Dialector() (gorm.Dialector, error) {
	switch c.DbType {
	case MySQL:
		return mysql.Open(c.GetDSN()), nil
	case Postgres:
		return postgres.Open(c.GetDSN()), nil
	case SQLite:
		return sqlite.Open(c.GetDSN()), nil
	default:
		return nil, errors.Errorf("dialector(%s) not supported", c.DbType)
	}
}

// NewDBClient 创建db客户端
func NewDBClient(c DBConfig) (*gorm.DB, error) {
	c.Prepare()
	dialect, err := c.Dialector()
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if c.Debug {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             time.Duration(c.SlowThreshold) * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
	db, err := gorm.Open(dialect, gormConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "open %s database", c.DbType)
	}
	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetMaxIdleConns(c.MaxIdleConnections)
	sqlDb.SetMaxOpenConns(c.MaxOpenConnections)
	sqlDb.SetConnMaxLifetime(time.Duration(c.MaxLifetime) * time.Second)
	return db, nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDb, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logs.Infof(format, args...)
}
