package mcpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/safego"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path      string `json:"path" yaml:"path" mapstructure:"path"`
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Version   string `json:"version" yaml:"version" mapstructure:"version"`
	Transport string `json:"transport" yaml:"transport" mapstructure:"transport"`
	Host      string `json:"host" yaml:"host" mapstructure:"host"`
	Port      int    `json:"port" yaml:"port" mapstructure:"port"`
	// Stateless 为 true 时不校验 Mcp-Session-Id，适合多副本部署
	Stateless    bool   `json:"stateless" yaml:"stateless" mapstructure:"stateless"`
	Instructions string `json:"instructions" yaml:"instructions" mapstructure:"instructions"`
}

func (c *Config) Prepare() {
	if c.Name == "" {
		c.Name = "todo-mcp-server"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Path == "" {
		c.Path = "/mcp"
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewServer 创建MCP服务，工具由调用方注册
func NewServer(cfg *Config) *mcp.Server {
	return mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: cfg.Instructions,
	})
}

// Serve 按配置的传输方式运行服务，直到ctx结束或对端断开
func Serve(ctx context.Context, cfg *Config, server *mcp.Server) error {
	switch cfg.Transport {
	case TransportStdio:
		logs.Infof("Mcp服务启动成功，传输方式：stdio")
		return server.Run(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return ServeHTTP(ctx, cfg, server)
	default:
		return errors.Errorf("unknown mcp transport %q", cfg.Transport)
	}
}

// ServeHTTP 以 streamable HTTP 方式暴露服务
func ServeHTTP(ctx context.Context, cfg *Config, server *mcp.Server) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: cfg.Stateless})

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	safego.Go(ctx, func() {
		logs.Infof("Mcp服务启动成功，监听地址：%s%s", srv.Addr, cfg.Path)
		errCh <- srv.ListenAndServe()
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Errorf("停止Mcp服务失败：%v", err)
		return err
	}
	logs.Infof("Mcp服务停止成功")
	return nil
}

// Int64 accepts a JSON number or a numeric string, the way loosely typed
// clients send ids.
type Int64 int64

func (v *Int64) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	var f json.Number
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		f = json.Number(strings.TrimSpace(str))
	} else {
		f = json.Number(s)
	}
	if i, err := strconv.ParseInt(f.String(), 10, 64); err == nil {
		*v = Int64(i)
		return nil
	}
	fl, err := strconv.ParseFloat(f.String(), 64)
	if err != nil || fl != float64(int64(fl)) {
		return errors.Errorf("expected an integer, got %s", s)
	}
	*v = Int64(fl)
	return nil
}
