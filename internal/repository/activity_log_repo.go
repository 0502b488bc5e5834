package repository

import (
	"context"

	"shallbuy/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	Record(ctx context.Context, action entity.ActivityAction, actionType entity.ActionType, userID uuid.UUID) error
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

var actionTypeColors = map[entity.ActionType]string{
	entity.ActionTypeUser:         "blue",
	entity.ActionTypeSubscription: "green",
	entity.ActionTypeProject:      "red",
	entity.ActionTypeTask:         "yellow",
}

func colorForActionType(actionType entity.ActionType) string {
	if color, ok := actionTypeColors[actionType]; ok {
		return color
	}
	return "gray"
}

func (r *activityLogRepository) Record(
	ctx context.Context,
	action entity.ActivityAction,
	actionType entity.ActionType,
	userID uuid.UUID,
) error {
	log := &entity.ActivityLog{
		UserID:     userID,
		Action:     action,
		ActionType: actionType,
		Color:      colorForActionType(actionType),
	}
	return r.db.WithContext(ctx).Create(log).Error
}
