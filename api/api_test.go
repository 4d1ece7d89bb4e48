package api

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/google/uuid"
	"github.com/hatcher/todoai/assistant"
	"github.com/hatcher/todoai/db"
	"github.com/hatcher/todoai/pkg/hertzx"
	"github.com/hatcher/todoai/pkg/ormx"
	"github.com/hatcher/todoai/todo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newTestServer(t *testing.T, web hertzx.WebConfig, provider assistant.Provider, opts assistant.Options) *server.Hertz {
	t.Helper()
	gdb, err := ormx.NewDBClient(ormx.DBConfig{DbType: ormx.SQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ormx.Close(gdb) })
	q, err := db.New(gdb)
	require.NoError(t, err)

	opts.Sleep = noSleep
	ai := assistant.New(provider, assistant.NewMemoryCache(0), opts)
	web.Prepare()
	h := hertzx.WebEngine(web)
	NewHandler(todo.NewService(q), ai).Register(h)
	return h
}

func failingProvider() assistant.Provider {
	return assistant.ProviderFunc(func(context.Context, string) (string, error) {
		return "", errors.New("upstream down")
	})
}

type response struct {
	status int
	body   gjson.Result
	header func(string) string
}

func do(h *server.Hertz, method, path, body string) response {
	var b *ut.Body
	if body != "" {
		b = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	w := ut.PerformRequest(h.Engine, method, path, b, ut.Header{Key: "Content-Type", Value: "application/json"})
	res := w.Result()
	return response{
		status: res.StatusCode(),
		body:   gjson.ParseBytes(res.Body()),
		header: func(k string) string { return string(res.Header.Peek(k)) },
	}
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})

	created := do(h, http.MethodPost, "/todos", `{"title":"Minimal Todo"}`)
	require.Equal(t, http.StatusCreated, created.status, created.body.Raw)
	require.Equal(t, "medium", created.body.Get("priority").String())
	require.Equal(t, "pending", created.body.Get("status").String())
	require.Equal(t, `[]`, created.body.Get("tags").Raw)
	require.False(t, created.body.Get("is_deleted").Exists())
	require.NotEmpty(t, created.header("X-Request-ID"))
	id := created.body.Get("id").String()

	got := do(h, http.MethodGet, "/todos/"+id, "")
	require.Equal(t, http.StatusOK, got.status)
	require.Equal(t, "Minimal Todo", got.body.Get("title").String())

	patched := do(h, http.MethodPatch, "/api/v1/todos/"+id, `{"status":"completed","description":null}`)
	require.Equal(t, http.StatusOK, patched.status, patched.body.Raw)
	require.Equal(t, "completed", patched.body.Get("status").String())
	require.Equal(t, "Minimal Todo", patched.body.Get("title").String())

	deleted := do(h, http.MethodDelete, "/todos/"+id, "")
	require.Equal(t, http.StatusNoContent, deleted.status)
	require.Empty(t, deleted.body.Raw)

	gone := do(h, http.MethodGet, "/todos/"+id, "")
	require.Equal(t, http.StatusNotFound, gone.status)
	require.Equal(t, "NOT_FOUND", gone.body.Get("error.code").String())
	require.Equal(t, "Todo with id "+id+" not found", gone.body.Get("error.message").String())

	require.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/todos/"+id, "").status)
	require.Equal(t, http.StatusNotFound, do(h, http.MethodPatch, "/todos/"+id, `{"title":"x"}`).status)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{}`, field: "title"},
		{name: "empty title", body: `{"title":""}`, field: "title"},
		{name: "bad priority", body: `{"title":"x","priority":"someday"}`, field: "priority"},
		{name: "bad due date", body: `{"title":"x","due_date":"next week"}`, field: "due_date"},
		{name: "not json", body: `{"title":`, field: "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(h, http.MethodPost, "/todos", tt.body)
			require.Equal(t, http.StatusBadRequest, res.status)
			require.Equal(t, "VALIDATION_ERROR", res.body.Get("error.code").String())
			require.Equal(t, "Invalid request data", res.body.Get("error.message").String())
			require.True(t, res.body.Get("error.details."+tt.field).Exists(), res.body.Raw)
		})
	}

	res := do(h, http.MethodGet, "/todos/abc", "")
	require.Equal(t, http.StatusBadRequest, res.status)
	require.True(t, res.body.Get("error.details.id").Exists())
}

func TestListTodos(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})

	for _, body := range []string{
		`{"title":"alpha","priority":"low","tags":["work"]}`,
		`{"title":"beta","priority":"urgent","tags":["home"]}`,
		`{"title":"gamma","priority":"high","tags":["work","urgent"]}`,
	} {
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/todos", body).status)
	}

	all := do(h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, all.status)
	require.EqualValues(t, 3, all.body.Get("metadata.total").Int())
	require.Equal(t, "gamma", all.body.Get("data.0.title").String())

	work := do(h, http.MethodGet, "/todos?tags=work", "")
	require.EqualValues(t, 2, work.body.Get("metadata.total").Int())
	require.Len(t, work.body.Get("data").Array(), 2)

	either := do(h, http.MethodGet, "/todos?tags_filter=home,urgent", "")
	require.EqualValues(t, 2, either.body.Get("metadata.total").Int())

	byPriority := do(h, http.MethodGet, "/todos?sort_by=priority&sort_order=asc", "")
	var titles []string
	for _, d := range byPriority.body.Get("data.#.title").Array() {
		titles = append(titles, d.String())
	}
	require.Equal(t, []string{"alpha", "gamma", "beta"}, titles)

	urgent := do(h, http.MethodGet, "/todos?priority=urgent", "")
	require.EqualValues(t, 1, urgent.body.Get("metadata.total").Int())

	paged := do(h, http.MethodGet, "/todos?sort_by=title&sort_order=asc&page=2&page_size=2", "")
	require.EqualValues(t, 3, paged.body.Get("metadata.total").Int())
	require.EqualValues(t, 2, paged.body.Get("metadata.page").Int())
	require.EqualValues(t, 1, paged.body.Get("metadata.page_size").Int())
	require.Equal(t, "gamma", paged.body.Get("data.0.title").String())

	unpaged := do(h, http.MethodGet, "/todos?page=3", "")
	require.Equal(t, http.StatusOK, unpaged.status)
	require.Len(t, unpaged.body.Get("data").Array(), 3)
	require.EqualValues(t, 1, unpaged.body.Get("metadata.page").Int())

	for _, q := range []string{"status=archived", "priority=asap", "sort_order=sideways", "page=x"} {
		res := do(h, http.MethodGet, "/todos?"+q, "")
		require.Equal(t, http.StatusBadRequest, res.status, q)
	}
}

func TestAIEndpoints(t *testing.T) {
	t.Parallel()
	var calls int
	provider := assistant.ProviderFunc(func(context.Context, string) (string, error) {
		calls++
		return `{"suggestions":[{"title":"Book flights","description":"Compare prices","priority":"high"}]}`, nil
	})
	h := newTestServer(t, hertzx.WebConfig{}, provider, assistant.Options{})

	res := do(h, http.MethodPost, "/ai/suggest", `{"description":"plan a trip"}`)
	require.Equal(t, http.StatusOK, res.status, res.body.Raw)
	require.Equal(t, "Book flights", res.body.Get("suggestions.0.title").String())
	do(h, http.MethodPost, "/ai/suggest", `{"description":"plan a trip"}`)
	require.Equal(t, 1, calls)

	res = do(h, http.MethodPost, "/ai/suggest", `{"description":""}`)
	require.Equal(t, http.StatusBadRequest, res.status)

	res = do(h, http.MethodPost, "/ai/prioritize", `{"todos":[{"id":1,"title":"A","priority":"high"},{"id":2,"title":"B","priority":"low"}]}`)
	require.Equal(t, http.StatusOK, res.status, res.body.Raw)
	require.EqualValues(t, 1, res.body.Get("ranked_todos.0.todo_id").Int())
	require.EqualValues(t, 2, res.body.Get("ranked_todos.1.todo_id").Int())

	res = do(h, http.MethodPost, "/ai/prioritize", `{"todos":[]}`)
	require.Equal(t, http.StatusBadRequest, res.status)
}

func TestPrioritizeAcceptsTodoDateLayouts(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})

	body := `{"todos":[` +
		`{"id":1,"title":"later","priority":"medium","due_date":"2025-01-09"},` +
		`{"id":2,"title":"sooner","priority":"medium","due_date":"2025-01-07T00:00:00"},` +
		`{"id":3,"title":"undated","priority":"medium","due_date":null}]}`
	res := do(h, http.MethodPost, "/ai/prioritize", body)
	require.Equal(t, http.StatusOK, res.status, res.body.Raw)
	var ids []int64
	for _, id := range res.body.Get("ranked_todos.#.todo_id").Array() {
		ids = append(ids, id.Int())
	}
	require.Equal(t, []int64{2, 1, 3}, ids)

	created := do(h, http.MethodPost, "/todos", `{"title":"same layout","due_date":"2025-01-07T00:00:00"}`)
	require.Equal(t, http.StatusCreated, created.status)

	res = do(h, http.MethodPost, "/ai/prioritize", `{"todos":[{"id":1,"title":"a","priority":"high","due_date":"next week"}]}`)
	require.Equal(t, http.StatusBadRequest, res.status)
	require.Equal(t, "VALIDATION_ERROR", res.body.Get("error.code").String())
}

func TestAIFallbackAndUnavailable(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})
	res := do(h, http.MethodPost, "/ai/breakdown", `{"task":"launch the product"}`)
	require.Equal(t, http.StatusOK, res.status)
	require.Equal(t, "Define requirements", res.body.Get("subtasks.0.title").String())
	require.Equal(t, `[0]`, res.body.Get("subtasks.1.dependencies").Raw)

	strict := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{DisableFallback: true})
	res = do(strict, http.MethodPost, "/ai/breakdown", `{"task":"launch the product"}`)
	require.Equal(t, http.StatusServiceUnavailable, res.status)
	require.Equal(t, "AI_UNAVAILABLE", res.body.Get("error.code").String())
	require.Equal(t, "AI service temporarily unavailable", res.body.Get("error.message").String())
}

func TestServiceRoutes(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{}, failingProvider(), assistant.Options{})

	res := do(h, http.MethodGet, "/health", "")
	require.JSONEq(t, `{"status":"healthy","message":"API is operational"}`, res.body.Raw)

	res = do(h, http.MethodGet, "/", "")
	require.Equal(t, serviceName, res.body.Get("name").String())
	require.NotEmpty(t, res.body.Get("version").String())

	res = do(h, http.MethodGet, "/docs", "")
	require.True(t, res.body.Get(`routes.#(path=="/todos/:id")`).Exists())

	res = do(h, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, res.status)
	require.Equal(t, "NOT_FOUND", res.body.Get("error.code").String())

	res = do(h, http.MethodPut, "/todos", "")
	require.Equal(t, http.StatusMethodNotAllowed, res.status)

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/health", nil, ut.Header{Key: "X-Request-ID", Value: "client-chosen"})
	id := string(w.Result().Header.Peek("X-Request-ID"))
	require.NotEqual(t, "client-chosen", id)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, hertzx.WebConfig{RateLimit: 2}, failingProvider(), assistant.Options{})

	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "").status)
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "").status)
	res := do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, res.status)
	require.Equal(t, "RATE_LIMIT_EXCEEDED", res.body.Get("error.code").String())
	require.NotEmpty(t, res.header("X-Request-ID"))
}
