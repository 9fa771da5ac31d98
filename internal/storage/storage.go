package storage

import (
	"chatterbox/backend/internal/models"
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is everything the realtime hub needs from the persistence layer.
// The hub never touches gorm or redis directly; tests substitute a mock.
type Storage interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)

	IsUserEligible(userID string, callType models.CallType) (bool, error)
	SetUserPlan(userID, plan string) error
	SetLastSeen(userID string, t time.Time) error
	GetLastSeen(userID string) (*time.Time, error)

	SaveMessage(msg *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	DeliverPendingMessages(receiverID string) ([]string, error)
	MarkConversationSeen(readerID, peerID string) (int64, error)

	CreateCallRecord(rec *models.CallRecord) error
	GetCallRecord(id string) (*models.CallRecord, error)
	UpdateCallRecord(id string, fields map[string]interface{}) error
	GetCallHistory(userID string) ([]models.CallRecord, error)
}

// Plans that unlock voice and video calling. Everything else (including an
// absent plan key) is treated as the free tier.
var callEligiblePlans = map[string]bool{
	"pro":     true,
	"premium": true,
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateUser зберігає нового користувача в PostgreSQL.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByID повертає користувача за його ID.
// Якщо запис не знайдено, повертаємо nil без помилки.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsUserEligible перевіряє план підписки користувача в Redis (швидка перевірка).
// Voice and video currently share one gate; callType is part of the contract so
// the rule can diverge per media kind without touching the hub.
func (s *Service) IsUserEligible(userID string, callType models.CallType) (bool, error) {
	key := "plan:" + userID
	plan, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil // no plan key => free tier
	}
	if err != nil {
		return false, err
	}
	return callEligiblePlans[plan], nil
}

// SetUserPlan записує план підписки користувача в Redis.
func (s *Service) SetUserPlan(userID, plan string) error {
	return s.Redis.Set(s.Ctx, "plan:"+userID, plan, 0).Err()
}

// SetLastSeen фіксує момент останнього відключення користувача.
func (s *Service) SetLastSeen(userID string, t time.Time) error {
	return s.Redis.Set(s.Ctx, "lastseen:"+userID, t.UTC().Format(time.RFC3339), 0).Err()
}

// GetLastSeen повертає час останнього відключення, або nil, якщо користувач
// ще ніколи не відключався.
func (s *Service) GetLastSeen(userID string) (*time.Time, error) {
	raw, err := s.Redis.Get(s.Ctx, "lastseen:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveMessage зберігає повідомлення в PostgreSQL. msg.ID буде заповнено GORM.
func (s *Service) SaveMessage(msg *models.Message) error {
	if msg.Status == "" {
		msg.Status = models.MessageStatusSent
	}
	if err := s.DB.Save(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message from %s: %v", msg.SenderID, err)
		return err
	}
	return nil
}

// GetMessageByID повертає повідомлення за його внутрішнім ID.
// Якщо запис не знайдено, повертаємо nil без помилки.
func (s *Service) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeliverPendingMessages переводить усі повідомлення зі статусом "sent",
// адресовані користувачу, у статус "delivered" і повертає унікальні ID
// відправників цих повідомлень. The status filter makes the operation
// idempotent: a second run finds nothing left in "sent".
func (s *Service) DeliverPendingMessages(receiverID string) ([]string, error) {
	var senders []string
	if err := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND status = ?", receiverID, models.MessageStatusSent).
		Distinct().
		Pluck("sender_id", &senders).Error; err != nil {
		log.Printf("ERROR: Failed to list pending senders for %s: %v", receiverID, err)
		return nil, err
	}
	if len(senders) == 0 {
		return nil, nil
	}

	if err := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND status = ?", receiverID, models.MessageStatusSent).
		Update("status", models.MessageStatusDelivered).Error; err != nil {
		log.Printf("ERROR: Failed to mark messages delivered for %s: %v", receiverID, err)
		return nil, err
	}
	return senders, nil
}

// MarkConversationSeen переводить усі повідомлення від peer до reader у
// статус "seen". Повертає кількість оновлених рядків.
// A message routed to an online receiver is still at "sent" (delivery only
// advances on the receiver's next registration), so the filter covers both
// "sent" and "delivered"; skipping straight to "seen" keeps the lifecycle
// monotone.
func (s *Service) MarkConversationSeen(readerID, peerID string) (int64, error) {
	res := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND status IN ?",
			readerID, peerID,
			[]models.MessageStatus{models.MessageStatusSent, models.MessageStatusDelivered}).
		Update("status", models.MessageStatusSeen)
	if res.Error != nil {
		log.Printf("ERROR: Failed to mark conversation seen (%s <- %s): %v", readerID, peerID, res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
