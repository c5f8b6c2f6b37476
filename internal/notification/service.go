package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/planbyte/event-planner-backend/config"
	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/utils"
	"gorm.io/datatypes"
)

// Service interface
type Service interface {
	SendNotification(ctx context.Context, senderID *uint, eventID *uint, channel, subject, body string, recipients []string, ip string) error

	// In-app notifications
	CreateInAppNotification(ctx context.Context, userID uint, eventID *uint, title, message, category string) error
	CreateInAppForUsers(ctx context.Context, userIDs []uint, title, message, category string) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	MarkAllInAppAsRead(ctx context.Context, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// FCM Device Token Management
	RegisterDeviceToken(ctx context.Context, userID uint, deviceToken, deviceType, deviceName string) error
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error

	// FCM Push Notifications
	SendPushToUsers(ctx context.Context, userIDs []uint, title, body string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	email    Channel
	fcm      Channel
}

func NewService(repo Repository, cfg *config.Config, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		auditSvc: auditSvc,
		email:    NewEmailSender(cfg),
		fcm:      NewFCMChannel(),
	}
}

// SendNotification logs, sends and audits an outbound message
func (s *service) SendNotification(
	ctx context.Context,
	senderID *uint,
	eventID *uint,
	channel, subject, body string,
	recipients []string,
	ip string,
) error {
	if len(recipients) == 0 {
		return errors.New("no recipients specified")
	}

	recipientsJSON, _ := json.Marshal(recipients)
	log := &NotificationLog{
		UserID:     senderID,
		EventID:    eventID,
		Channel:    channel,
		Subject:    subject,
		Body:       body,
		Recipients: datatypes.JSON(recipientsJSON),
		Status:     "pending",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.CreateNotificationLog(ctx, log); err != nil {
		return err
	}

	fmt.Printf("📨 Starting notification send: channel=%s, recipients=%d\n", channel, len(recipients))

	var sendErr error
	switch channel {
	case "email":
		sendErr = s.sendInBatches(s.email, recipients, subject, body, 50)
	case "push":
		sendErr = s.sendInBatches(s.fcm, recipients, subject, body, 500)
	default:
		sendErr = fmt.Errorf("unsupported channel: %s", channel)
	}

	if sendErr != nil {
		errMsg := sendErr.Error()
		log.Status = "failed"
		log.Error = &errMsg
		fmt.Printf("❌ Notification send failed: %v\n", sendErr)
	} else {
		log.Status = "sent"
		fmt.Printf("✅ Notification sent successfully to %d recipients\n", len(recipients))
	}

	log.UpdatedAt = time.Now()
	updateErr := s.repo.UpdateNotificationLog(ctx, log)

	auditAction := "EMAIL_SENT"
	if channel == "push" {
		auditAction = "PUSH_NOTIFICATION_SENT"
	}

	status := "success"
	if sendErr != nil {
		status = "failure"
	}

	details := map[string]interface{}{
		"channel":          channel,
		"recipients_count": len(recipients),
		"subject":          subject,
	}

	if auditErr := s.auditSvc.LogAction(ctx, senderID, eventID, auditAction, details, ip, status); auditErr != nil {
		fmt.Printf("❌ Audit log error: %v\n", auditErr)
	}

	if sendErr != nil {
		return sendErr
	}
	return updateErr
}

// sendInBatches fans recipients out over a channel in fixed-size chunks
func (s *service) sendInBatches(ch Channel, recipients []string, subject, body string, batchSize int) error {
	totalRecipients := len(recipients)
	var lastErr error
	successCount := 0
	failedCount := 0

	for i := 0; i < totalRecipients; i += batchSize {
		end := i + batchSize
		if end > totalRecipients {
			end = totalRecipients
		}

		batch := recipients[i:end]
		batchNum := (i / batchSize) + 1
		totalBatches := (totalRecipients + batchSize - 1) / batchSize

		if err := ch.Send(batch, subject, body); err != nil {
			fmt.Printf("❌ Batch %d/%d failed: %v\n", batchNum, totalBatches, err)
			lastErr = err
			failedCount += len(batch)
		} else {
			successCount += len(batch)
		}

		if end < totalRecipients {
			time.Sleep(200 * time.Millisecond)
		}
	}

	if successCount > 0 && failedCount > 0 {
		return fmt.Errorf("partial success: %d/%d sent, last error: %v",
			successCount, totalRecipients, lastErr)
	}

	if failedCount == totalRecipients && lastErr != nil {
		return fmt.Errorf("all batches failed: %v", lastErr)
	}

	return nil
}

// CreateInAppNotification stores a bell notification for a specific user
func (s *service) CreateInAppNotification(ctx context.Context, userID uint, eventID *uint, title, message, category string) error {
	item := &InAppNotification{
		UserID:    userID,
		EventID:   eventID,
		Title:     title,
		Message:   message,
		Category:  category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		return err
	}

	// Realtime fanout over Redis pub/sub, best effort
	payload, _ := json.Marshal(map[string]interface{}{
		"id":         item.ID,
		"user_id":    item.UserID,
		"event_id":   item.EventID,
		"title":      item.Title,
		"message":    item.Message,
		"category":   item.Category,
		"is_read":    item.IsRead,
		"created_at": item.CreatedAt,
	})
	channel := fmt.Sprintf("notifications:user:%d", userID)
	_ = utils.Publish(channel, string(payload))
	return nil
}

func (s *service) CreateInAppForUsers(ctx context.Context, userIDs []uint, title, message, category string) error {
	unique := make(map[uint]struct{}, len(userIDs))
	for _, uid := range userIDs {
		if _, seen := unique[uid]; seen {
			continue
		}
		unique[uid] = struct{}{}
		if err := s.CreateInAppNotification(ctx, uid, nil, title, message, category); err != nil {
			fmt.Printf("in-app fanout error for user %d: %v\n", uid, err)
		}
	}
	return nil
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	return s.repo.ListInAppByUser(ctx, userID, limit)
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) MarkAllInAppAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllInAppAsRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// RegisterDeviceToken records an FCM device token for a user
func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, deviceToken, deviceType, deviceName string) error {
	token := &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: deviceToken,
		DeviceType:  deviceType,
		DeviceName:  deviceName,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	return s.repo.SaveDeviceToken(ctx, token)
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, deviceToken)
}

// SendPushToUsers pushes a notification to every active device of the users
func (s *service) SendPushToUsers(ctx context.Context, userIDs []uint, title, body string) error {
	var allTokens []string

	for _, userID := range userIDs {
		tokens, err := s.repo.GetUserDeviceTokens(ctx, userID)
		if err != nil {
			fmt.Printf("⚠️ Failed to get tokens for user %d: %v\n", userID, err)
			continue
		}
		allTokens = append(allTokens, tokens...)
	}

	if len(allTokens) == 0 {
		return errors.New("no device tokens found for specified users")
	}

	return s.SendNotification(ctx, nil, nil, "push", title, body, allTokens, "")
}
