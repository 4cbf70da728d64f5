package repository

import (
	"errors"
	"time"

	"github.com/snapgather/snapgather-backend/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(photo *models.Photos) error {
	return r.db.Create(photo).Error
}

func (r *PhotoRepository) GetByID(id uint) (*models.Photos, error) {
	var photo models.Photos
	err := r.db.First(&photo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) ListByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error) {
	var photos []models.Photos
	var total int64

	base := r.db.Model(&models.Photos{}).Where("event_id = ?", eventID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.Order("uploaded_at DESC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, total, err
}

// ListApprovedByEventID is the only listing the public share path uses.
func (r *PhotoRepository) ListApprovedByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error) {
	var photos []models.Photos
	var total int64

	base := r.db.Model(&models.Photos{}).
		Where("event_id = ? AND approval_status = ?", eventID, models.PhotoApproved)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.Order("uploaded_at DESC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, total, err
}

func (r *PhotoRepository) AllByEventID(eventID uint) ([]models.Photos, error) {
	var photos []models.Photos
	err := r.db.Where("event_id = ?", eventID).Find(&photos).Error
	return photos, err
}

// UpdateStatusIf moves a photo between moderation states only if the
// stored status still matches what the moderator saw. The moderation
// stamp travels in the same statement so a winning transition is fully
// applied or not at all.
func (r *PhotoRepository) UpdateStatusIf(id uint, from, to models.ApprovalStatus, moderatorID uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.Photos{}).
		Where("id = ? AND approval_status = ?", id, from).
		Updates(map[string]interface{}{
			"approval_status": to,
			"moderated_by":    moderatorID,
			"moderated_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PhotoRepository) UpdateCaption(id uint, caption string) error {
	return r.db.Model(&models.Photos{}).Where("id = ?", id).Update("caption", caption).Error
}

func (r *PhotoRepository) Delete(id uint) error {
	return r.db.Delete(&models.Photos{}, id).Error
}

func (r *PhotoRepository) DeleteByEventID(eventID uint) error {
	return r.db.Where("event_id = ?", eventID).Delete(&models.Photos{}).Error
}

func (r *PhotoRepository) CountByEventID(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photos{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *PhotoRepository) CountApprovedByEventID(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photos{}).
		Where("event_id = ? AND approval_status = ?", eventID, models.PhotoApproved).
		Count(&count).Error
	return count, err
}

func (r *PhotoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Photos{}).Count(&count).Error
	return count, err
}

func (r *PhotoRepository) SumFileSize() (int64, error) {
	var total int64
	err := r.db.Model(&models.Photos{}).
		Select("COALESCE(SUM(file_size), 0)").Scan(&total).Error
	return total, err
}

func (r *PhotoRepository) Recent(offset, limit int) ([]models.Photos, int64, error) {
	var photos []models.Photos
	var total int64

	if err := r.db.Model(&models.Photos{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("uploaded_at DESC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, total, err
}
