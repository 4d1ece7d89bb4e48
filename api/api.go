package api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hatcher/todoai/assistant"
	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/hertzx"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/resp"
	"github.com/hatcher/todoai/todo"
	"github.com/pkg/errors"
	"github.com/prometheus/common/version"
)

const serviceName = "Evolution of Todo API"

// Assistant is the AI surface the handlers depend on.
type Assistant interface {
	Suggest(ctx context.Context, req assistant.SuggestionRequest) (assistant.SuggestionResponse, error)
	Prioritize(ctx context.Context, req assistant.PrioritizationRequest) (assistant.PrioritizationResponse, error)
	Breakdown(ctx context.Context, req assistant.BreakdownRequest) (assistant.BreakdownResponse, error)
}

type Handler struct {
	todos todo.Service
	ai    Assistant
}

func NewHandler(todos todo.Service, ai Assistant) *Handler {
	return &Handler{todos: todos, ai: ai}
}

// Register mounts every route at the root and again under /api/v1.
func (h *Handler) Register(s *server.Hertz) {
	s.GET("/", h.root)
	s.GET("/health", h.health)
	s.GET("/docs", h.docs(s))

	for _, prefix := range []string{"", "/api/v1"} {
		g := s.Group(prefix)
		g.POST("/todos", h.createTodo)
		g.GET("/todos", h.listTodos)
		g.GET("/todos/:id", h.getTodo)
		g.PATCH("/todos/:id", h.updateTodo)
		g.DELETE("/todos/:id", h.deleteTodo)

		g.POST("/ai/suggest", h.suggest)
		g.POST("/ai/prioritize", h.prioritize)
		g.POST("/ai/breakdown", h.breakdown)
	}
}

func Version() string {
	if version.Version != "" {
		return version.Version
	}
	return "1.0.0"
}

func (h *Handler) root(ctx context.Context, c *app.RequestContext) {
	hertzx.OK(c, map[string]string{
		"name":    serviceName,
		"version": Version(),
		"status":  "running",
		"docs":    "/docs",
	})
}

func (h *Handler) health(ctx context.Context, c *app.RequestContext) {
	hertzx.OK(c, resp.Status{Status: "healthy", Message: "API is operational"})
}

type routeDoc struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (h *Handler) docs(s *server.Hertz) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		routes := s.Routes()
		out := make([]routeDoc, 0, len(routes))
		for _, r := range routes {
			out = append(out, routeDoc{Method: r.Method, Path: r.Path})
		}
		hertzx.OK(c, map[string]any{"name": serviceName, "version": Version(), "routes": out})
	}
}

// fail maps domain errors onto the error envelope.
func fail(ctx context.Context, c *app.RequestContext, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		logs.CtxWarnf(ctx, "validation error on %s: %v", c.Request.URI().Path(), err)
		hertzx.Bad(c, verr.Details)
	case errors.Is(err, todo.ErrNotFound):
		hertzx.NotFound(c, err.Error())
	case errors.Is(err, assistant.ErrAIUnavailable):
		logs.CtxErrorf(ctx, "AI service error: %v", err)
		hertzx.Unavailable(c, assistant.ErrAIUnavailable.Error())
	default:
		logs.CtxErrorf(ctx, "unhandled error on %s %s: %+v", c.Method(), c.Request.URI().Path(), err)
		hertzx.Internal(c)
	}
}

// bindJSON decodes the body; decode failures are reported as validation
// errors on "body".
func bindJSON(c *app.RequestContext, v any) error {
	if err := c.BindJSON(v); err != nil {
		verr := models.NewValidationError()
		verr.Add("body", err.Error())
		return verr
	}
	return nil
}
