package tools

import (
	"encoding/json"
	"fmt"

	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/mcpx"
	"github.com/hatcher/todoai/todo"
	"github.com/pkg/errors"
)

type Verb string

const (
	VerbCreate Verb = "create_todo"
	VerbList   Verb = "list_todos"
	VerbUpdate Verb = "update_todo"
	VerbDelete Verb = "delete_todo"
)

var Verbs = []Verb{VerbCreate, VerbList, VerbUpdate, VerbDelete}

// Call is one of CreateCall, ListCall, UpdateCall or DeleteCall.
type Call interface {
	Verb() Verb
}

type CreateCall struct {
	Input todo.CreateInput
}

type ListCall struct {
	Filters todo.Filters
}

type UpdateCall struct {
	ID    int64
	Input todo.UpdateInput
}

type DeleteCall struct {
	ID int64
}

func (CreateCall) Verb() Verb { return VerbCreate }
func (ListCall) Verb() Verb   { return VerbList }
func (UpdateCall) Verb() Verb { return VerbUpdate }
func (DeleteCall) Verb() Verb { return VerbDelete }

type CreateArgs struct {
	Title       *string  `json:"title" jsonschema:"required,minLength=1,maxLength=200,description=Todo title"`
	Description *string  `json:"description,omitempty" jsonschema:"maxLength=2000,description=Todo description"`
	DueDate     *string  `json:"due_date,omitempty" jsonschema:"format=date-time,description=Due date"`
	Priority    *string  `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high,enum=urgent,default=medium,description=Todo priority"`
	Tags        []string `json:"tags,omitempty" jsonschema:"description=Todo tags"`
}

type ListArgs struct {
	Status   *string  `json:"status,omitempty" jsonschema:"enum=pending,enum=in_progress,enum=completed,enum=cancelled,description=Filter by status"`
	Priority *string  `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high,enum=urgent,description=Filter by priority"`
	Tags     []string `json:"tags,omitempty" jsonschema:"description=Filter by tags (any match)"`
}

type UpdateArgs struct {
	ID          *mcpx.Int64 `json:"id" jsonschema:"required,description=Todo ID"`
	Title       *string     `json:"title,omitempty" jsonschema:"minLength=1,maxLength=200,description=New title"`
	Description *string     `json:"description,omitempty" jsonschema:"maxLength=2000,description=New description"`
	DueDate     *string     `json:"due_date,omitempty" jsonschema:"format=date-time,description=New due date"`
	Status      *string     `json:"status,omitempty" jsonschema:"enum=pending,enum=in_progress,enum=completed,enum=cancelled,description=New status"`
	Priority    *string     `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high,enum=urgent,description=New priority"`
	Tags        *[]string   `json:"tags,omitempty" jsonschema:"description=New tags"`
}

type DeleteArgs struct {
	ID *mcpx.Int64 `json:"id" jsonschema:"required,description=Todo ID"`
}

type missingFieldError string

func (e missingFieldError) Error() string {
	return fmt.Sprintf("Missing required field: %s", string(e))
}

type unknownToolError string

func (e unknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", string(e))
}

// ParseCall decodes raw tool arguments into a typed call. Enum tokens are
// coerced here; length rules stay with the service.
func ParseCall(name string, raw json.RawMessage) (Call, error) {
	switch Verb(name) {
	case VerbCreate:
		var args CreateArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Title == nil {
			return nil, missingFieldError("title")
		}
		in, err := todo.CreateRequest{
			Title:       args.Title,
			Description: args.Description,
			DueDate:     args.DueDate,
			Priority:    args.Priority,
			Tags:        args.Tags,
		}.Input()
		if err != nil {
			return nil, err
		}
		return CreateCall{Input: in}, nil

	case VerbList:
		var args ListArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		f := todo.Filters{Tags: args.Tags}
		verr := models.NewValidationError()
		if args.Status != nil {
			st, err := models.ParseStatus(*args.Status)
			if err != nil {
				verr.Add("status", err.Error())
			}
			f.Status = &st
		}
		if args.Priority != nil {
			p, err := models.ParsePriority(*args.Priority)
			if err != nil {
				verr.Add("priority", err.Error())
			}
			f.Priority = &p
		}
		if err := verr.OrNil(); err != nil {
			return nil, err
		}
		return ListCall{Filters: f}, nil

	case VerbUpdate:
		var args UpdateArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.ID == nil {
			return nil, missingFieldError("id")
		}
		in, err := todo.UpdateRequest{
			Title:       args.Title,
			Description: args.Description,
			DueDate:     args.DueDate,
			Priority:    args.Priority,
			Status:      args.Status,
			Tags:        args.Tags,
		}.Input()
		if err != nil {
			return nil, err
		}
		return UpdateCall{ID: int64(*args.ID), Input: in}, nil

	case VerbDelete:
		var args DeleteArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.ID == nil {
			return nil, missingFieldError("id")
		}
		return DeleteCall{ID: int64(*args.ID)}, nil
	}
	return nil, unknownToolError(name)
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.WithMessage(err, "invalid arguments")
	}
	return nil
}
