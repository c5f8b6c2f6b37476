package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Logs
	CreateNotificationLog(ctx context.Context, log *NotificationLog) error
	UpdateNotificationLog(ctx context.Context, log *NotificationLog) error

	// In-app notifications
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	MarkAllInAppAsRead(ctx context.Context, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// FCM Device Tokens
	SaveDeviceToken(ctx context.Context, token *FCMDeviceToken) error
	GetUserDeviceTokens(ctx context.Context, userID uint) ([]string, error)
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ------------------------------
// Logs
// ------------------------------

func (r *repository) CreateNotificationLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) UpdateNotificationLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).
		Model(&NotificationLog{}).
		Where("id = ?", log.ID).
		Updates(log).Error
}

// ------------------------------
// In-App Notifications
// ------------------------------

func (r *repository) CreateInApp(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	var items []InAppNotification
	if limit <= 0 {
		limit = 20
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *repository) MarkAllInAppAsRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ------------------------------
// FCM Device Tokens
// ------------------------------

// SaveDeviceToken creates or updates a device token
func (r *repository) SaveDeviceToken(ctx context.Context, token *FCMDeviceToken) error {
	var existing FCMDeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_token = ?", token.UserID, token.DeviceToken).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		token.LastUsedAt = time.Now()
		return r.db.WithContext(ctx).Create(token).Error
	}

	if err != nil {
		return err
	}

	existing.IsActive = true
	existing.LastUsedAt = time.Now()
	existing.DeviceType = token.DeviceType
	existing.DeviceName = token.DeviceName

	return r.db.WithContext(ctx).Save(&existing).Error
}

// GetUserDeviceTokens retrieves all active device tokens for a user
func (r *repository) GetUserDeviceTokens(ctx context.Context, userID uint) ([]string, error) {
	var tokens []FCMDeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}

	result := make([]string, len(tokens))
	for i, t := range tokens {
		result[i] = t.DeviceToken
	}

	return result, nil
}

// RemoveDeviceToken deactivates a specific device token
func (r *repository) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return r.db.WithContext(ctx).
		Model(&FCMDeviceToken{}).
		Where("user_id = ? AND device_token = ?", userID, deviceToken).
		Update("is_active", false).Error
}
