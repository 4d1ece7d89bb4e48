package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/todo"
	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type ErrorInfo struct {
	Message string `json:"message"`
}

// Result is what every tool call returns; failures are values, never errors.
type Result struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

func (r Result) IsError() bool {
	return r.Status == StatusError
}

func success(data any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

func failure(msg string) Result {
	return Result{Status: StatusError, Error: &ErrorInfo{Message: msg}}
}

type ListData struct {
	Todos []todo.Todo `json:"todos"`
	Total int         `json:"total"`
}

type DeleteData struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

type Definition struct {
	Verb        Verb
	Description string
	Schema      *jsonschema.Schema
}

var descriptions = map[Verb]string{
	VerbCreate: "Create a new todo item",
	VerbList:   "List all todo items with optional filters",
	VerbUpdate: "Update an existing todo item",
	VerbDelete: "Delete a todo item",
}

var argTypes = map[Verb]any{
	VerbCreate: &CreateArgs{},
	VerbList:   &ListArgs{},
	VerbUpdate: &UpdateArgs{},
	VerbDelete: &DeleteArgs{},
}

// Adapter exposes the todo service as a fixed set of tools.
type Adapter struct {
	svc todo.Service
}

func NewAdapter(svc todo.Service) *Adapter {
	return &Adapter{svc: svc}
}

func (a *Adapter) Definitions() []Definition {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		Anonymous:                  true,
	}
	defs := make([]Definition, 0, len(Verbs))
	for _, v := range Verbs {
		s := r.Reflect(argTypes[v])
		s.Version = ""
		defs = append(defs, Definition{Verb: v, Description: descriptions[v], Schema: s})
	}
	return defs
}

// Call runs one tool by name.
func (a *Adapter) Call(ctx context.Context, name string, raw json.RawMessage) Result {
	logs.CtxInfof(ctx, "handling tool call: %s", name)
	call, err := ParseCall(name, raw)
	if err != nil {
		logs.CtxWarnf(ctx, "tool %s rejected: %v", name, err)
		return failure(err.Error())
	}
	data, err := a.execute(ctx, call)
	if err != nil {
		if !errors.Is(err, todo.ErrNotFound) {
			logs.CtxErrorf(ctx, "tool %s failed: %v", name, err)
		}
		return failure(err.Error())
	}
	logs.CtxDebugf(ctx, "tool %s executed successfully", name)
	return success(data)
}

func (a *Adapter) execute(ctx context.Context, call Call) (any, error) {
	switch c := call.(type) {
	case CreateCall:
		return a.svc.Create(ctx, c.Input)
	case ListCall:
		res, err := a.svc.List(ctx, todo.ListOptions{Filters: c.Filters})
		if err != nil {
			return nil, err
		}
		return ListData{Todos: res.Data, Total: len(res.Data)}, nil
	case UpdateCall:
		return a.svc.Update(ctx, c.ID, c.Input)
	case DeleteCall:
		if err := a.svc.Delete(ctx, c.ID); err != nil {
			return nil, err
		}
		return DeleteData{Deleted: true, ID: c.ID}, nil
	default:
		panic(fmt.Sprintf("tools: unhandled call %T", call))
	}
}

// Register adds every verb to an MCP server.
func Register(server *mcp.Server, a *Adapter) {
	for _, def := range a.Definitions() {
		name := string(def.Verb)
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: def.Description,
			InputSchema: def.Schema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx = logs.WithLogID(ctx, uuid.NewString())
			return toCallToolResult(a.Call(ctx, name, req.Params.Arguments))
		})
	}
}

func toCallToolResult(res Result) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(res)
	if err != nil {
		return nil, errors.WithMessage(err, "encode tool result")
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: json.RawMessage(text),
		IsError:           res.IsError(),
	}, nil
}
