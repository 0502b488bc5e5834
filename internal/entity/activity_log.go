package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityAction string

const (
	ActionCreate ActivityAction = "CREATE"
	ActionUpdate ActivityAction = "UPDATE"
	ActionDelete ActivityAction = "DELETE"
)

type ActionType string

const (
	ActionTypeUser         ActionType = "USER"
	ActionTypeSubscription ActionType = "SUBSCRIPTION"
	ActionTypeProject      ActionType = "PROJECT"
	ActionTypeTask         ActionType = "TASK"
)

type ActivityLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Action     ActivityAction `gorm:"type:varchar(32);not null"`
	ActionType ActionType     `gorm:"type:varchar(32);not null"`
	Color      string         `gorm:"type:varchar(16)"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}

func (l *ActivityLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
