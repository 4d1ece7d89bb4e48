package todo

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/hatcher/todoai/db"
	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/logs"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (Todo, error)
	Get(ctx context.Context, id int64) (Todo, error)
	List(ctx context.Context, opts ListOptions) (ListResult, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Todo, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	q db.Querier
}

func NewService(q db.Querier) Service {
	return &service{q: q}
}

func (s *service) Create(ctx context.Context, in CreateInput) (Todo, error) {
	verr := models.NewValidationError()
	validateTitle(verr, &in.Title)
	validateDescription(verr, in.Description)
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	} else if !priority.Valid() {
		verr.Add("priority", fmt.Sprintf("invalid priority %q", priority))
	}
	if err := verr.OrNil(); err != nil {
		return Todo{}, err
	}

	created, err := s.q.CreateTodo(ctx, db.CreateTodoArgs{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      models.StatusPending,
		Tags:        in.Tags,
	})
	if err != nil {
		return Todo{}, err
	}
	logs.CtxInfof(ctx, "todo created: id=%d", created.ID)
	return fromDBItem(created), nil
}

func (s *service) Get(ctx context.Context, id int64) (Todo, error) {
	t, err := s.q.GetTodo(ctx, id)
	if err != nil {
		return Todo{}, err
	}
	if t == nil {
		return Todo{}, &NotFoundError{ID: id}
	}
	return fromDBItem(*t), nil
}

func (s *service) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	filter := db.TodoFilter{
		Status:   opts.Filters.Status,
		Priority: opts.Filters.Priority,
		Tags:     opts.Filters.Tags,
	}
	pageable := models.PageRequest(opts.Page, opts.PageSize, opts.Sort.SortField, opts.Sort.SortOrder)
	rows, err := s.q.ListTodos(ctx, db.ListTodosArgs{Filter: filter, Pageable: &pageable})
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.q.CountTodos(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	data := make([]Todo, 0, len(rows))
	for _, row := range rows {
		data = append(data, fromDBItem(row))
	}
	return ListResult{
		Data: data,
		Metadata: Metadata{
			Total:    total,
			Page:     pageable.PageNo,
			PageSize: len(data),
		},
	}, nil
}

func (s *service) Update(ctx context.Context, id int64, in UpdateInput) (Todo, error) {
	verr := models.NewValidationError()
	if in.Title != nil {
		validateTitle(verr, in.Title)
	}
	validateDescription(verr, in.Description)
	if in.Priority != nil && !in.Priority.Valid() {
		verr.Add("priority", fmt.Sprintf("invalid priority %q", *in.Priority))
	}
	if in.Status != nil && !in.Status.Valid() {
		verr.Add("status", fmt.Sprintf("invalid status %q", *in.Status))
	}
	if err := verr.OrNil(); err != nil {
		return Todo{}, err
	}

	if in.Empty() {
		logs.CtxDebugf(ctx, "no fields to update for todo %d", id)
		return s.Get(ctx, id)
	}
	updated, err := s.q.UpdateTodo(ctx, id, in.args())
	if err != nil {
		return Todo{}, err
	}
	if updated == nil {
		return Todo{}, &NotFoundError{ID: id}
	}
	logs.CtxInfof(ctx, "todo updated: id=%d", id)
	return fromDBItem(*updated), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.q.DeleteTodo(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{ID: id}
	}
	logs.CtxInfof(ctx, "todo deleted: id=%d", id)
	return nil
}

func validateTitle(verr *models.ValidationError, title *string) {
	n := utf8.RuneCountInString(*title)
	switch {
	case n == 0:
		verr.Add("title", "must not be empty")
	case n > models.TitleMaxLength:
		verr.Add("title", fmt.Sprintf("must be at most %d characters", models.TitleMaxLength))
	}
}

func validateDescription(verr *models.ValidationError, description *string) {
	if description != nil && utf8.RuneCountInString(*description) > models.DescriptionMaxLength {
		verr.Add("description", fmt.Sprintf("must be at most %d characters", models.DescriptionMaxLength))
	}
}
