package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/planbyte/event-planner-backend/internal/auth"
	"github.com/planbyte/event-planner-backend/utils"
)

// invitationMessage mirrors the broker payload published on invitation changes
type invitationMessage struct {
	Type         string `json:"type"`
	InvitationID uint   `json:"invitation_id"`
	EventID      uint   `json:"event_id"`
	EventTitle   string `json:"event_title"`
	InviterID    uint   `json:"inviter_id"`
	InviteeEmail string `json:"invitee_email"`
	Status       string `json:"status"`
	Token        string `json:"token"`
}

// Consumer turns broker messages into emails, bell notifications and pushes
type Consumer struct {
	svc      Service
	authRepo auth.Repository
}

func NewConsumer(svc Service, authRepo auth.Repository) *Consumer {
	return &Consumer{svc: svc, authRepo: authRepo}
}

// Start reads invitation messages until the context is cancelled.
// Run it in its own goroutine.
func (c *Consumer) Start(ctx context.Context) {
	reader := utils.NewKafkaReader("notification-service")
	defer reader.Close()

	log.Println("📥 Notification consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("📥 Notification consumer stopped")
				return
			}
			log.Printf("⚠️ kafka read error: %v", err)
			continue
		}

		var payload invitationMessage
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("⚠️ skipping malformed message: %v", err)
			continue
		}

		c.handle(ctx, payload)
	}
}

func (c *Consumer) handle(ctx context.Context, msg invitationMessage) {
	switch msg.Type {
	case "invitation.created", "invitation.resent":
		c.handleInvite(ctx, msg)
	case "invitation.responded":
		c.handleResponse(ctx, msg)
	default:
		log.Printf("⚠️ unknown message type: %s", msg.Type)
	}
}

// handleInvite emails the guest their tokenized accept link.
// A guest who already has an account also gets the bell and push.
func (c *Consumer) handleInvite(ctx context.Context, msg invitationMessage) {
	inviterName := "Someone"
	if inviter, err := c.authRepo.FindByID(msg.InviterID); err == nil {
		inviterName = inviter.FullName
	}

	if err := utils.SendInvitationEmail(msg.InviteeEmail, inviterName, msg.EventTitle, msg.Token); err != nil {
		log.Printf("❌ failed to email invitation %d: %v", msg.InvitationID, err)
		return
	}
	log.Printf("✅ invitation email sent to %s for event %d", msg.InviteeEmail, msg.EventID)

	invitee, err := c.authRepo.FindByEmail(msg.InviteeEmail)
	if err != nil {
		// No account yet; the email link is all we can offer
		return
	}

	title := "You're Invited"
	body := inviterName + " invited you to " + msg.EventTitle

	eventID := msg.EventID
	if err := c.svc.CreateInAppNotification(ctx, invitee.ID, &eventID, title, body, "invitation"); err != nil {
		log.Printf("⚠️ in-app notify failed for user %d: %v", invitee.ID, err)
	}

	if err := c.svc.SendPushToUsers(ctx, []uint{invitee.ID}, title, body); err != nil {
		log.Printf("ℹ️ push skipped for user %d: %v", invitee.ID, err)
	}
}

// handleResponse tells the inviter how the guest answered
func (c *Consumer) handleResponse(ctx context.Context, msg invitationMessage) {
	inviter, err := c.authRepo.FindByID(msg.InviterID)
	if err != nil {
		log.Printf("⚠️ inviter %d not found for invitation %d", msg.InviterID, msg.InvitationID)
		return
	}

	title := "Invitation Response"
	body := msg.InviteeEmail + " responded " + msg.Status + " to " + msg.EventTitle

	eventID := msg.EventID
	if err := c.svc.CreateInAppNotification(ctx, inviter.ID, &eventID, title, body, "invitation"); err != nil {
		log.Printf("⚠️ in-app notify failed for user %d: %v", inviter.ID, err)
	}

	if err := utils.SendResponseNotificationEmail(inviter.Email, msg.InviteeEmail, msg.EventTitle, msg.Status); err != nil {
		log.Printf("⚠️ response email failed for %s: %v", inviter.Email, err)
	}

	if err := c.svc.SendPushToUsers(ctx, []uint{inviter.ID}, title, body); err != nil {
		// common when the user has no registered devices
		log.Printf("ℹ️ push skipped for user %d: %v", inviter.ID, err)
	}
}
