package model

import (
	"time"
)

// TodoItem is the single persisted entity. Timestamps are stamped by the
// service layer, not by GORM, so automatic time tracking is disabled.
// Tags holds a JSON-encoded array of strings and is opaque below the
// presentation layer.
type TodoItem struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"size:1000" json:"description"`
	IsCompleted bool       `gorm:"not null;index" json:"isCompleted"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `gorm:"not null" json:"priority"`
	Category    *string    `gorm:"size:50" json:"category"`
	Tags        *string    `gorm:"size:500" json:"tags"`

	// Version backs optimistic concurrency in the repository. It never
	// travels over the wire.
	Version int64 `gorm:"not null" json:"-"`
}
