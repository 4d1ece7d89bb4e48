package db

import (
	"time"

	"github.com/hatcher/todoai/models"
)

type Todo struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string          `json:"title" gorm:"size:200;not null;column:title"`
	Description *string         `json:"description" gorm:"size:2000;column:description"`
	DueDate     *time.Time      `json:"due_date" gorm:"index;column:due_date"`
	Priority    models.Priority `json:"priority" gorm:"size:16;not null;index;column:priority"`
	Status      models.Status   `json:"status" gorm:"size:16;not null;index;column:status"`
	Tags        []string        `json:"tags" gorm:"type:text;serializer:json;column:tags"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;column:created_at"`
	ModifiedAt  time.Time       `json:"modified_at" gorm:"not null;column:modified_at"`
	IsDeleted   bool            `json:"-" gorm:"not null;index;column:is_deleted"`
}

func (t *Todo) TableName() string {
	return "todos"
}
