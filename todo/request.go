package todo

import (
	"time"

	"github.com/hatcher/todoai/models"
	"github.com/hatcher/todoai/pkg/util"
)

// CreateRequest is the wire shape accepted by the HTTP and tool surfaces.
// Status is accepted for compatibility and ignored.
type CreateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Input coerces tokens into typed values. Length rules are checked by the
// service.
func (r CreateRequest) Input() (CreateInput, error) {
	verr := models.NewValidationError()
	in := CreateInput{Description: r.Description, Tags: r.Tags}
	if r.Title == nil {
		verr.Add("title", "field required")
	} else {
		in.Title = *r.Title
	}
	in.DueDate = parseDueDate(verr, r.DueDate)
	if p := parsePriority(verr, r.Priority); p != nil {
		in.Priority = *p
	}
	return in, verr.OrNil()
}

// UpdateRequest fields left out, or sent as null, are not changed.
type UpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (r UpdateRequest) Input() (UpdateInput, error) {
	verr := models.NewValidationError()
	in := UpdateInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     parseDueDate(verr, r.DueDate),
		Priority:    parsePriority(verr, r.Priority),
		Tags:        r.Tags,
	}
	if r.Status != nil {
		st, err := models.ParseStatus(*r.Status)
		if err != nil {
			verr.Add("status", err.Error())
		} else {
			in.Status = util.Of(st)
		}
	}
	return in, verr.OrNil()
}

func parseDueDate(verr *models.ValidationError, s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := models.ParseTime(*s)
	if err != nil {
		verr.Add("due_date", err.Error())
		return nil
	}
	return util.Of(t)
}

func parsePriority(verr *models.ValidationError, s *string) *models.Priority {
	if s == nil {
		return nil
	}
	p, err := models.ParsePriority(*s)
	if err != nil {
		verr.Add("priority", err.Error())
		return nil
	}
	return util.Of(p)
}
