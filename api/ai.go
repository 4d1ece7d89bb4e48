package api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hatcher/todoai/assistant"
	"github.com/hatcher/todoai/pkg/hertzx"
)

func (h *Handler) suggest(ctx context.Context, c *app.RequestContext) {
	var req assistant.SuggestionRequest
	if err := bindJSON(c, &req); err != nil {
		fail(ctx, c, err)
		return
	}
	res, err := h.ai.Suggest(ctx, req)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, res)
}

func (h *Handler) prioritize(ctx context.Context, c *app.RequestContext) {
	var req assistant.PrioritizationRequest
	if err := bindJSON(c, &req); err != nil {
		fail(ctx, c, err)
		return
	}
	res, err := h.ai.Prioritize(ctx, req)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, res)
}

func (h *Handler) breakdown(ctx context.Context, c *app.RequestContext) {
	var req assistant.BreakdownRequest
	if err := bindJSON(c, &req); err != nil {
		fail(ctx, c, err)
		return
	}
	res, err := h.ai.Breakdown(ctx, req)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, res)
}
