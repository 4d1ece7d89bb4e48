package db

import (
	"context"
)

type Querier interface {
	CreateTodo(ctx context.Context, arg CreateTodoArgs) (Todo, error)
	// GetTodo returns nil without error when the row is missing or deleted.
	GetTodo(ctx context.Context, id int64) (*Todo, error)
	ListTodos(ctx context.Context, arg ListTodosArgs) ([]Todo, error)
	CountTodos(ctx context.Context, filter TodoFilter) (int64, error)
	// UpdateTodo returns nil without error when the row is missing or deleted.
	UpdateTodo(ctx context.Context, id int64, arg UpdateTodoArgs) (*Todo, error)
	// DeleteTodo reports whether a live row was flagged.
	DeleteTodo(ctx context.Context, id int64) (bool, error)
}

var _ Querier = (*Queries)(nil)
