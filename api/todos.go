package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/hertzx"
	"github.com/hatcher/todoai/todo"
)

func (h *Handler) createTodo(ctx context.Context, c *app.RequestContext) {
	var req todo.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		fail(ctx, c, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		fail(ctx, c, err)
		return
	}
	created, err := h.todos.Create(ctx, in)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.Created(c, created)
}

func (h *Handler) listTodos(ctx context.Context, c *app.RequestContext) {
	opts, err := listOptions(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	res, err := h.todos.List(ctx, opts)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, res)
}

// listOptions reads the list query. The *_filter names are accepted as
// aliases of status, priority and tags.
func listOptions(c *app.RequestContext) (todo.ListOptions, error) {
	verr := models.NewValidationError()
	var opts todo.ListOptions

	if s := hertzx.QueryFirst(c, "status", "status_filter"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			verr.Add("status", err.Error())
		} else {
			opts.Filters.Status = &st
		}
	}
	if s := hertzx.QueryFirst(c, "priority", "priority_filter"); s != "" {
		p, err := models.ParsePriority(s)
		if err != nil {
			verr.Add("priority", err.Error())
		} else {
			opts.Filters.Priority = &p
		}
	}
	opts.Filters.Tags = hertzx.QueryStrings(c, "tags", "tags_filter")

	opts.Sort.SortField = hertzx.QueryFirst(c, "sort_by")
	if opts.Sort.SortField == "" {
		opts.Sort.SortField = "created_at"
	}
	order := strings.ToLower(hertzx.QueryFirst(c, "sort_order"))
	switch order {
	case "":
		order = models.SortDesc
	case models.SortAsc, models.SortDesc:
	default:
		verr.Add("sort_order", fmt.Sprintf("invalid sort order %q, expected asc or desc", order))
	}
	opts.Sort.SortOrder = order

	page, err := hertzx.QueryInt(c, "page")
	if err != nil || page < 0 {
		verr.Add("page", "must be a positive integer")
	}
	pageSize, err := hertzx.QueryInt(c, "page_size")
	if err != nil || pageSize < 0 {
		verr.Add("page_size", "must be a positive integer")
	}
	opts.Page, opts.PageSize = page, pageSize
	return opts, verr.OrNil()
}

func pathID(c *app.RequestContext) (int64, error) {
	id, err := hertzx.ParamInt64(c, "id")
	if err != nil {
		verr := models.NewValidationError()
		verr.Add("id", "must be an integer")
		return 0, verr
	}
	return id, nil
}

func (h *Handler) getTodo(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	t, err := h.todos.Get(ctx, id)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, t)
}

func (h *Handler) updateTodo(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	var req todo.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		fail(ctx, c, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		fail(ctx, c, err)
		return
	}
	t, err := h.todos.Update(ctx, id, in)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.OK(c, t)
}

func (h *Handler) deleteTodo(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	if err := h.todos.Delete(ctx, id); err != nil {
		fail(ctx, c, err)
		return
	}
	hertzx.NoContent(c)
}
