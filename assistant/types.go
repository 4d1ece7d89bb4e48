package assistant

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/util"
	"github.com/pkg/errors"
)

type SuggestionRequest struct {
	Description string `json:"description" jsonschema:"minLength=1,description=Free-text description of what needs doing"`
}

func (r SuggestionRequest) Validate() error {
	verr := models.NewValidationError()
	if strings.TrimSpace(r.Description) == "" {
		verr.Add("description", "must not be empty")
	}
	return verr.OrNil()
}

type Suggestion struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
}

type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

func (r SuggestionResponse) validate() error {
	for i, s := range r.Suggestions {
		if s.Title == "" {
			return invalidf("suggestions[%d]: missing title", i)
		}
		if !s.Priority.Valid() {
			return invalidf("suggestions[%d]: invalid priority %q", i, s.Priority)
		}
	}
	return nil
}

// TodoSummary is the slice of a todo the prioritizer looks at.
type TodoSummary struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	DueDate  *time.Time      `json:"due_date"`
	Priority models.Priority `json:"priority"`
}

// UnmarshalJSON reads due_date with the same layouts todos accept,
// including datetimes without a zone.
func (t *TodoSummary) UnmarshalJSON(b []byte) error {
	type plain TodoSummary
	var raw struct {
		plain
		DueDate *string `json:"due_date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = TodoSummary(raw.plain)
	t.DueDate = nil
	if raw.DueDate != nil && strings.TrimSpace(*raw.DueDate) != "" {
		due, err := models.ParseTime(*raw.DueDate)
		if err != nil {
			return errors.WithMessagef(err, "todo %d due_date", raw.ID)
		}
		t.DueDate = util.Of(due)
	}
	return nil
}

type PrioritizationRequest struct {
	Todos []TodoSummary `json:"todos" jsonschema:"minItems=1"`
}

func (r PrioritizationRequest) Validate() error {
	verr := models.NewValidationError()
	if len(r.Todos) == 0 {
		verr.Add("todos", "must contain at least one todo")
	}
	for i, t := range r.Todos {
		if !t.Priority.Valid() {
			verr.Add("todos", invalidf("todos[%d]: invalid priority %q", i, t.Priority).Error())
		}
	}
	return verr.OrNil()
}

type RankedTodo struct {
	TodoID              int64           `json:"todo_id"`
	Title               string          `json:"title"`
	RecommendedPriority models.Priority `json:"recommended_priority"`
	Reasoning           string          `json:"reasoning"`
}

type PrioritizationResponse struct {
	RankedTodos []RankedTodo `json:"ranked_todos"`
}

func (r PrioritizationResponse) validate() error {
	for i, t := range r.RankedTodos {
		if !t.RecommendedPriority.Valid() {
			return invalidf("ranked_todos[%d]: invalid priority %q", i, t.RecommendedPriority)
		}
	}
	return nil
}

type BreakdownRequest struct {
	Task string `json:"task" jsonschema:"minLength=1,description=The complex task to split into subtasks"`
}

func (r BreakdownRequest) Validate() error {
	verr := models.NewValidationError()
	if strings.TrimSpace(r.Task) == "" {
		verr.Add("task", "must not be empty")
	}
	return verr.OrNil()
}

// Subtask dependencies are zero-based indices into the returned list.
type Subtask struct {
	Title          string `json:"title"`
	EstimatedOrder int    `json:"estimated_order"`
	Dependencies   []int  `json:"dependencies"`
}

type BreakdownResponse struct {
	Subtasks []Subtask `json:"subtasks"`
}

func (r BreakdownResponse) validate() error {
	for i := range r.Subtasks {
		s := &r.Subtasks[i]
		if s.Title == "" {
			return invalidf("subtasks[%d]: missing title", i)
		}
		if s.EstimatedOrder < 1 {
			return invalidf("subtasks[%d]: estimated_order must be >= 1", i)
		}
		if s.Dependencies == nil {
			s.Dependencies = []int{}
		}
	}
	return nil
}
