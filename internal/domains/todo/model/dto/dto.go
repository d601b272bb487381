package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"tasktrack/internal/domains/todo/model"
	"tasktrack/shared/constant"
	gDto "tasktrack/shared/dto"
	"tasktrack/shared/failure"
	gModel "tasktrack/shared/model"
	"tasktrack/shared/timezone"
	"time"

	"github.com/google/uuid"
)

var jsonNull = []byte("null")

type CreateTodoRequest struct {
	Title       string  `json:"title"       validate:"required,notblank,max=255"`
	Description string  `json:"description" validate:"max=1000"`
	DueDate     *string `json:"dueDate"     validate:"omitempty,duedate"`
	Status      string  `json:"status"      validate:"omitempty,oneof=InProgress Done Overdue"`
}

// ToModel builds a new todo owned by ownerID. Status defaults to InProgress and the
// overdue rule is applied once against now.
func (c *CreateTodoRequest) ToModel(ownerID string, now time.Time) (model.Todo, error) {
	dueDate, err := ParseDueDate(c.DueDate)
	if err != nil {
		return model.Todo{}, err
	}

	status := model.Status(c.Status)
	if status == "" {
		status = model.StatusInProgress
	}

	todo := model.Todo{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		DueDate:     dueDate,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  ownerID,
			ModifiedBy: ownerID,
		},
	}

	todo.Derive(now)

	return todo, nil
}

// UpdateTodoRequest is a partial update. A dueDate of null or "" clears the due date;
// an absent dueDate leaves it untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title"       validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	DueDate     *string `json:"dueDate"     validate:"omitempty,duedate"`
	Status      *string `json:"status"      validate:"omitempty,oneof=InProgress Done Overdue"`

	DueDateSet bool `json:"-"`
}

func (r *UpdateTodoRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTodoRequest

	var raw struct {
		alias
		DueDate json.RawMessage `json:"dueDate"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck
	}

	*r = UpdateTodoRequest(raw.alias)
	r.DueDate = nil
	r.DueDateSet = raw.DueDate != nil

	if r.DueDateSet && !bytes.Equal(raw.DueDate, jsonNull) {
		var dueDate string
		if err := json.Unmarshal(raw.DueDate, &dueDate); err != nil {
			return err //nolint:wrapcheck
		}

		r.DueDate = &dueDate
	}

	return nil
}

func (r *UpdateTodoRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil && !r.DueDateSet
}

// Merge applies the request onto todo and re-runs the overdue rule against now.
func (r *UpdateTodoRequest) Merge(todo *model.Todo, now time.Time) error {
	if r.Title != nil {
		todo.Title = strings.TrimSpace(*r.Title)
	}

	if r.Description != nil {
		todo.Description = *r.Description
	}

	if r.DueDateSet {
		dueDate, err := ParseDueDate(r.DueDate)
		if err != nil {
			return err
		}

		todo.DueDate = dueDate
	}

	if r.Status != nil {
		todo.Status = model.Status(*r.Status)
	}

	todo.Derive(now)

	return nil
}

// ParseDueDate accepts nil, "", YYYY-MM-DD or RFC3339. Empty input yields nil.
func ParseDueDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil //nolint:nilnil
	}

	parsed, err := timezone.Parse(*value, constant.DateFormat, constant.DateOnlyFormat)
	if err != nil {
		return nil, failure.BadRequestFromString("dueDate must be a date (YYYY-MM-DD) or an RFC3339 timestamp") //nolint:wrapcheck
	}

	return &parsed, nil
}

type TodoResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"dueDate"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(todo model.Todo) {
	r.ID = todo.ID
	r.UserID = todo.OwnerID
	r.Title = todo.Title
	r.Description = todo.Description
	r.Status = string(todo.Status)
	r.DueDate = nil

	if todo.DueDate != nil {
		dueDate := timezone.Format(*todo.DueDate, constant.DateFormat)
		r.DueDate = &dueDate
	}

	r.Metadata.FromModel(todo.Metadata)
}

func FromModels(todos []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(todos))

	for i, todo := range todos {
		res[i].FromModel(todo)
	}

	return res
}
