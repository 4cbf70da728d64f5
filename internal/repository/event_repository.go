package repository

import (
	"errors"

	"github.com/snapgather/snapgather-backend/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByShareToken(token string) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("share_token = ?", token).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByHostID(hostID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("host_id = ?", hostID).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) Save(event *models.Event) error {
	return r.db.Save(event).Error
}

// UpdateStatusIf applies a lifecycle transition only if the stored
// status still matches the expected prior state. Returns false when a
// concurrent writer got there first.
func (r *EventRepository) UpdateStatusIf(id uint, from, to models.EventStatus) (bool, error) {
	result := r.db.Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkDeleted soft-deletes from any non-deleted state, atomically.
func (r *EventRepository) MarkDeleted(id uint) (bool, error) {
	result := r.db.Model(&models.Event{}).
		Where("id = ? AND status <> ?", id, models.EventDeleted).
		Update("status", models.EventDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the row entirely (admin force-delete path).
func (r *EventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}

func (r *EventRepository) List(offset, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *EventRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Count(&count).Error
	return count, err
}

func (r *EventRepository) CountByHostID(hostID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("host_id = ?", hostID).Count(&count).Error
	return count, err
}

func (r *EventRepository) ShareTokenExists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("share_token = ?", token).Count(&count).Error
	return count > 0, err
}
