package db

import (
	"time"

	"github.com/hatcher/todoai/models"
)

type CreateTodoArgs struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
	Tags        []string        `json:"tags"`
}

// TodoFilter is a conjunction; zero fields do not constrain.
// Tags match when the row carries any of them.
type TodoFilter struct {
	Status   *models.Status   `json:"status"`
	Priority *models.Priority `json:"priority"`
	Tags     []string         `json:"tags"`
}

type ListTodosArgs struct {
	Filter   TodoFilter
	Pageable *models.Pageable
}

// UpdateTodoArgs carries one slot per mutable column; nil slots are left
// untouched. id and created_at have no slot.
type UpdateTodoArgs struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Status      *models.Status
	Tags        *[]string
}

func (a UpdateTodoArgs) Empty() bool {
	return a.Title == nil &&
		a.Description == nil &&
		a.DueDate == nil &&
		a.Priority == nil &&
		a.Status == nil &&
		a.Tags == nil
}
