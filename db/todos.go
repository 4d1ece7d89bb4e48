package db

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hatcher/todoai/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var sortColumns = map[string]bool{
	"id":          true,
	"title":       true,
	"due_date":    true,
	"priority":    true,
	"status":      true,
	"created_at":  true,
	"modified_at": true,
}

// priority is stored as text, so order it by severity instead.
const priorityRank = "CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 WHEN 'urgent' THEN 3 ELSE 1 END"

func notDeleted(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_deleted = ?", false)
}

func (f TodoFilter) scope(tx *gorm.DB) *gorm.DB {
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		tx = tx.Where("priority = ?", *f.Priority)
	}
	if len(f.Tags) > 0 {
		clauses := make([]string, 0, len(f.Tags))
		args := make([]interface{}, 0, len(f.Tags))
		dialect := tx.Dialector.Name()
		for _, tag := range f.Tags {
			clause, arg := tagClause(dialect, tag)
			clauses = append(clauses, clause)
			args = append(args, arg)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return tx
}

// tagClause matches one element of the JSON encoded tags column, case
// sensitively. LIKE folds case on sqlite and on the default mysql collation.
func tagClause(dialect, tag string) (string, interface{}) {
	encoded, _ := json.Marshal(tag)
	switch dialect {
	case "sqlite":
		escaped := strings.NewReplacer("[", "[[]", "*", "[*]", "?", "[?]").Replace(string(encoded))
		return "tags GLOB ?", "*" + escaped + "*"
	case "mysql":
		return "JSON_CONTAINS(tags, ?)", string(encoded)
	default:
		escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(string(encoded))
		return "tags LIKE ? ESCAPE '!'", "%" + escaped + "%"
	}
}

func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoArgs) (Todo, error) {
	now := q.now().UTC()
	tags := arg.Tags
	if tags == nil {
		tags = []string{}
	}
	t := &Todo{
		Title:       arg.Title,
		Description: arg.Description,
		DueDate:     arg.DueDate,
		Priority:    arg.Priority,
		Status:      arg.Status,
		Tags:        tags,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err := models.Insert(q.db.WithContext(ctx), t); err != nil {
		return Todo{}, errors.WithMessage(err, "insert todo")
	}
	return *t, nil
}

func (q *Queries) GetTodo(ctx context.Context, id int64) (*Todo, error) {
	return q.take(q.db.WithContext(ctx).Scopes(notDeleted), id)
}

func (q *Queries) take(tx *gorm.DB, id int64) (*Todo, error) {
	var t Todo
	err := tx.Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "get todo %d", id)
	}
	normalize(&t)
	return &t, nil
}

func (q *Queries) ListTodos(ctx context.Context, arg ListTodosArgs) ([]Todo, error) {
	var sortable *models.Sortable
	if arg.Pageable != nil {
		sortable = arg.Pageable.Sortable
	}
	order := strings.Fields(sortable.Sort(sortColumns, "created_at"))
	column, dir := order[0], order[1]

	tx := q.db.WithContext(ctx).Model(&Todo{}).Scopes(notDeleted, arg.Filter.scope)
	if column == "priority" {
		tx = tx.Order(priorityRank + " " + dir)
	} else {
		tx = tx.Order(column + " " + dir)
	}
	if column != "id" {
		tx = tx.Order("id " + dir)
	}
	if arg.Pageable.Paged() {
		tx = tx.Offset(arg.Pageable.Offset()).Limit(arg.Pageable.PageSize)
	}

	var todos []Todo
	if err := tx.Find(&todos).Error; err != nil {
		return nil, errors.WithMessage(err, "list todos")
	}
	for i := range todos {
		normalize(&todos[i])
	}
	return todos, nil
}

func (q *Queries) CountTodos(ctx context.Context, filter TodoFilter) (int64, error) {
	cnt, err := models.Count(q.db.WithContext(ctx).Model(&Todo{}).Scopes(notDeleted, filter.scope))
	return cnt, errors.WithMessage(err, "count todos")
}

func (q *Queries) UpdateTodo(ctx context.Context, id int64, arg UpdateTodoArgs) (*Todo, error) {
	var updated *Todo
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := q.take(tx.Scopes(notDeleted), id)
		if err != nil || t == nil {
			return err
		}
		arg.apply(t)
		t.ModifiedAt = q.touch(t)
		if err := models.Save(tx, t); err != nil {
			return errors.WithMessagef(err, "save todo %d", id)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (q *Queries) DeleteTodo(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := q.take(tx.Scopes(notDeleted), id)
		if err != nil || t == nil {
			return err
		}
		res := tx.Model(&Todo{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{"is_deleted": true, "modified_at": q.touch(t)})
		if res.Error != nil {
			return errors.WithMessagef(res.Error, "delete todo %d", id)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// touch returns the next modified_at, never earlier than the stored one.
func (q *Queries) touch(t *Todo) time.Time {
	now := q.now().UTC()
	if now.Before(t.ModifiedAt) {
		return t.ModifiedAt
	}
	return now
}

func (a UpdateTodoArgs) apply(t *Todo) {
	if a.Title != nil {
		t.Title = *a.Title
	}
	if a.Description != nil {
		t.Description = a.Description
	}
	if a.DueDate != nil {
		t.DueDate = a.DueDate
	}
	if a.Priority != nil {
		t.Priority = *a.Priority
	}
	if a.Status != nil {
		t.Status = *a.Status
	}
	if a.Tags != nil {
		t.Tags = *a.Tags
		if t.Tags == nil {
			t.Tags = []string{}
		}
	}
}

func normalize(t *Todo) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
}
