package todo

import (
	"fmt"
	"time"

	"github.com/hatcher/todoai/db"
	"github.com/hatcher/todoai/models"
	"github.com/pkg/errors"
)

// Todo is the external representation of a stored todo.
type Todo struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

func fromDBItem(t db.Todo) Todo {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return Todo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		ModifiedAt:  t.ModifiedAt,
	}
}

// CreateInput is a validated creation request. A zero Priority means medium.
type CreateInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    models.Priority
	Tags        []string
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Status      *models.Status
	Tags        *[]string
}

func (u UpdateInput) args() db.UpdateTodoArgs {
	return db.UpdateTodoArgs{
		Title:       u.Title,
		Description: u.Description,
		DueDate:     u.DueDate,
		Priority:    u.Priority,
		Status:      u.Status,
		Tags:        u.Tags,
	}
}

func (u UpdateInput) Empty() bool {
	return u.args().Empty()
}

type Filters struct {
	Status   *models.Status
	Priority *models.Priority
	Tags     []string
}

type ListOptions struct {
	Filters Filters
	// Sort defaults to created_at descending.
	Sort models.Sortable
	// Page and PageSize are optional; a zero PageSize returns every match.
	Page     int
	PageSize int
}

type Metadata struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type ListResult struct {
	Data     []Todo   `json:"data"`
	Metadata Metadata `json:"metadata"`
}

var ErrNotFound = errors.New("todo not found")

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Todo with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
