package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hatcher/todoai/db"
	"github.com/hatcher/todoai/pkg/mcpx"
	"github.com/hatcher/todoai/pkg/ormx"
	"github.com/hatcher/todoai/todo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	gdb, err := ormx.NewDBClient(ormx.DBConfig{DbType: ormx.SQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ormx.Close(gdb) })
	q, err := db.New(gdb)
	require.NoError(t, err)
	return NewAdapter(todo.NewService(q))
}

func call(t *testing.T, a *Adapter, name, args string) gjson.Result {
	t.Helper()
	res := a.Call(context.Background(), name, json.RawMessage(args))
	b, err := json.Marshal(res)
	require.NoError(t, err)
	return gjson.ParseBytes(b)
}

func TestToolLifecycle(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)

	created := call(t, a, "create_todo", `{"title":"Write report","priority":"high","tags":["work"]}`)
	require.Equal(t, "success", created.Get("status").String())
	require.Equal(t, "pending", created.Get("data.status").String())
	require.Equal(t, "high", created.Get("data.priority").String())
	id := created.Get("data.id").Int()
	require.NotZero(t, id)

	listed := call(t, a, "list_todos", `{"tags":["work"]}`)
	require.Equal(t, "success", listed.Get("status").String())
	require.EqualValues(t, 1, listed.Get("data.total").Int())
	require.Equal(t, "Write report", listed.Get("data.todos.0.title").String())

	updated := call(t, a, "update_todo", `{"id":"`+created.Get("data.id").String()+`","status":"completed"}`)
	require.Equal(t, "success", updated.Get("status").String(), updated.Raw)
	require.Equal(t, "completed", updated.Get("data.status").String())

	deleted := call(t, a, "delete_todo", `{"id":`+created.Get("data.id").String()+`}`)
	require.JSONEq(t, `{"status":"success","data":{"deleted":true,"id":`+created.Get("data.id").String()+`}}`, deleted.Raw)

	again := call(t, a, "delete_todo", `{"id":`+created.Get("data.id").String()+`}`)
	require.Equal(t, "error", again.Get("status").String())
	require.Contains(t, again.Get("error.message").String(), "not found")

	empty := call(t, a, "list_todos", `{}`)
	require.EqualValues(t, 0, empty.Get("data.total").Int())
	require.True(t, empty.Get("data.todos").IsArray())
}

func TestToolErrors(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)

	tests := []struct {
		name    string
		tool    string
		args    string
		message string
	}{
		{name: "create without title", tool: "create_todo", args: `{"description":"x"}`, message: "Missing required field: title"},
		{name: "create with null args", tool: "create_todo", args: `null`, message: "Missing required field: title"},
		{name: "update without id", tool: "update_todo", args: `{"title":"x"}`, message: "Missing required field: id"},
		{name: "delete without id", tool: "delete_todo", args: `{}`, message: "Missing required field: id"},
		{name: "unknown tool", tool: "archive_todo", args: `{}`, message: "Unknown tool: archive_todo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, a, tt.tool, tt.args)
			require.JSONEq(t, `{"status":"error","error":{"message":"`+tt.message+`"}}`, res.Raw)
		})
	}

	bad := call(t, a, "create_todo", `{"title":"x","priority":"someday"}`)
	require.Equal(t, "error", bad.Get("status").String())
	require.Contains(t, bad.Get("error.message").String(), "invalid priority")

	bad = call(t, a, "list_todos", `{"status":"archived"}`)
	require.Contains(t, bad.Get("error.message").String(), "invalid status")

	bad = call(t, a, "create_todo", `{"title":""}`)
	require.Equal(t, "error", bad.Get("status").String())

	bad = call(t, a, "update_todo", `{"id":404,"title":"ghost"}`)
	require.Equal(t, "Todo with id 404 not found", bad.Get("error.message").String())
}

func TestDefinitions(t *testing.T) {
	t.Parallel()
	defs := NewAdapter(nil).Definitions()
	require.Len(t, defs, 4)

	byVerb := map[Verb]gjson.Result{}
	for _, d := range defs {
		b, err := json.Marshal(d.Schema)
		require.NoError(t, err)
		byVerb[d.Verb] = gjson.ParseBytes(b)
	}
	require.Equal(t, "object", byVerb[VerbCreate].Get("type").String())
	require.Equal(t, `["title"]`, byVerb[VerbCreate].Get("required").Raw)
	require.EqualValues(t, 200, byVerb[VerbCreate].Get("properties.title.maxLength").Int())
	require.Len(t, byVerb[VerbCreate].Get("properties.priority.enum").Array(), 4)
	require.Equal(t, `["id"]`, byVerb[VerbUpdate].Get("required").Raw)
	require.Equal(t, `["id"]`, byVerb[VerbDelete].Get("required").Raw)
	require.False(t, byVerb[VerbList].Get("required").Exists())
	require.Len(t, byVerb[VerbList].Get("properties.status.enum").Array(), 4)
}

func TestMCPRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newTestAdapter(t)

	server := mcpx.NewServer(&mcpx.Config{Name: "todo-mcp-server", Version: "test"})
	Register(server, a)

	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	tools, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"create_todo", "list_todos", "update_todo", "delete_todo"}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "create_todo",
		Arguments: map[string]any{"title": "from mcp"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, "from mcp", gjson.Get(text.Text, "data.title").String())

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "delete_todo",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text = res.Content[0].(*mcp.TextContent)
	require.Equal(t, "Missing required field: id", gjson.Get(text.Text, "error.message").String())
}
