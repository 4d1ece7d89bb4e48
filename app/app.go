package app

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hatcher/todoai/api"
	"github.com/hatcher/todoai/assistant"
	"github.com/hatcher/todoai/config"
	"github.com/hatcher/todoai/db"
	"github.com/hatcher/todoai/pkg/hertzx"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/mcpx"
	"github.com/hatcher/todoai/pkg/ormx"
	"github.com/hatcher/todoai/pkg/redisx"
	"github.com/hatcher/todoai/todo"
	"github.com/hatcher/todoai/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/prometheus/common/version"
	"golang.org/x/sync/errgroup"
)

// App owns the long lived resources of one process.
type App struct {
	Config    *config.Config
	Todos     todo.Service
	Assistant *assistant.Assistant
	Tools     *tools.Adapter

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	gdb, err := ormx.NewDBClient(cfg.DB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return ormx.Close(gdb) })
	q, err := db.New(gdb)
	if err != nil {
		return nil, errors.WithMessage(err, "migrate database")
	}
	logs.Infof("database ready, type: %s", cfg.DB.DbType)

	cache, err := a.newCache(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.AI.APIKey == "" {
		logs.Warnf("no AI api key configured, AI helpers will answer with fallbacks")
	}
	provider := assistant.NewOpenAIProvider(cfg.AI.OpenAI())
	logs.Infof("AI service initialized with model: %s", cfg.AI.Model)

	a.Todos = todo.NewService(q)
	a.Assistant = assistant.New(provider, cache, cfg.AI.Options())
	a.Tools = tools.NewAdapter(a.Todos)
	return a, nil
}

func (a *App) newCache(ctx context.Context) (assistant.Cache, error) {
	c := a.Config.AI.Cache
	switch c.Backend {
	case config.CacheNone:
		return assistant.NopCache{}, nil
	case config.CacheRedis:
		client, closer, err := redisx.NewRedis(ctx, a.Config.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closer)
		return assistant.NewRedisCache(client, c.KeyPrefix, c.TTL()), nil
	default:
		return assistant.NewMemoryCache(c.TTL()), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) HTTPServer() *server.Hertz {
	h := hertzx.WebEngine(a.Config.Web)
	api.NewHandler(a.Todos, a.Assistant).Register(h)
	return h
}

func (a *App) MCPServer() *mcp.Server {
	cfg := a.Config.MCP
	if version.Version != "" {
		cfg.Version = version.Version
	}
	s := mcpx.NewServer(&cfg)
	tools.Register(s, a.Tools)
	return s
}

// Serve runs the HTTP API, and the MCP endpoint over streamable HTTP when
// enabled, until ctx is done or either server fails.
func (a *App) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	h := a.HTTPServer()
	g.Go(func() error {
		logs.Infof("http server listening on %s", a.Config.Web.Addr())
		return h.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(a.Config.Web.ShutdownTimeout)*time.Millisecond)
		defer cancel()
		logs.Infof("shutting down http server")
		return h.Shutdown(shutdownCtx)
	})

	if a.Config.MCP.Enabled {
		cfg := a.Config.MCP
		s := a.MCPServer()
		g.Go(func() error {
			return mcpx.ServeHTTP(gctx, &cfg, s)
		})
	}
	return g.Wait()
}

// ServeMCP serves only the tool surface on the configured transport.
func (a *App) ServeMCP(ctx context.Context) error {
	cfg := a.Config.MCP
	return mcpx.Serve(ctx, &cfg, a.MCPServer())
}
