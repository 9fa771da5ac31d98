package storage

import (
	"chatterbox/backend/internal/models"
	"errors"
	"log"

	"gorm.io/gorm"
)

// CreateCallRecord зберігає новий запис про спробу дзвінка.
// rec.ID буде заповнено хуком BeforeCreate.
func (s *Service) CreateCallRecord(rec *models.CallRecord) error {
	if err := s.DB.Create(rec).Error; err != nil {
		log.Printf("ERROR: Failed to create call record (%s -> %s): %v",
			rec.CallerID, rec.ReceiverID, err)
		return err
	}
	return nil
}

// GetCallRecord повертає запис дзвінка за його ID.
// Якщо запис не знайдено, повертаємо nil без помилки.
func (s *Service) GetCallRecord(id string) (*models.CallRecord, error) {
	var rec models.CallRecord
	err := s.DB.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateCallRecord оновлює часткові поля запису дзвінка.
// No optimistic-concurrency check: last writer wins.
func (s *Service) UpdateCallRecord(id string, fields map[string]interface{}) error {
	if err := s.DB.Model(&models.CallRecord{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		log.Printf("ERROR: Failed to update call record %s: %v", id, err)
		return err
	}
	return nil
}

// GetCallHistory повертає всі дзвінки, в яких користувач брав участь,
// відсортовані від найновіших до найстаріших.
func (s *Service) GetCallHistory(userID string) ([]models.CallRecord, error) {
	var records []models.CallRecord
	if err := s.DB.
		Where("caller_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at desc").
		Find(&records).Error; err != nil {
		log.Printf("ERROR: Failed to get call history for %s: %v", userID, err)
		return nil, err
	}
	return records, nil
}
