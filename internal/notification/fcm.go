package notification

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/planbyte/event-planner-backend/utils"
)

// FCMChannel implements the Channel interface for Firebase Cloud Messaging
type FCMChannel struct {
	ctx context.Context
}

// NewFCMChannel wires FCM through the shared Firebase app
func NewFCMChannel() Channel {
	ctx := context.Background()

	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ FCM unavailable: %v\n", err)
	}

	return &FCMChannel{ctx: ctx}
}

// Send implements Channel for FCM.
// recipients are FCM device tokens, subject is the notification title.
func (f *FCMChannel) Send(recipients []string, subject, body string) error {
	client := utils.GetFCMClient()
	if client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	if len(recipients) == 0 {
		return fmt.Errorf("no FCM tokens provided")
	}

	if len(recipients) == 1 {
		return f.sendSingle(client, recipients[0], subject, body)
	}

	return f.sendMulticast(client, recipients, subject, body)
}

func (f *FCMChannel) sendSingle(client *messaging.Client, token, title, body string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "planner_notifications",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: intPtr(1),
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/icon-192x192.png",
			},
		},
	}

	response, err := client.Send(f.ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %v", err)
	}

	log.Printf("✅ FCM message sent successfully: %s\n", response)
	return nil
}

func (f *FCMChannel) sendMulticast(client *messaging.Client, tokens []string, title, body string) error {
	// FCM allows max 500 tokens per multicast
	batchSize := 500
	var failedTokens []string
	successCount := 0

	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := tokens[i:end]
		message := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound:        "default",
					ChannelID:    "planner_notifications",
					Priority:     messaging.PriorityHigh,
					DefaultSound: true,
				},
			},
			Webpush: &messaging.WebpushConfig{
				Notification: &messaging.WebpushNotification{
					Title: title,
					Body:  body,
					Icon:  "/icon-192x192.png",
				},
			},
		}

		response, err := client.SendMulticast(f.ctx, message)
		if err != nil {
			log.Printf("❌ Error sending FCM multicast batch: %v\n", err)
			failedTokens = append(failedTokens, batch...)
			continue
		}

		successCount += response.SuccessCount
		log.Printf("✅ FCM multicast: %d/%d messages sent successfully\n",
			response.SuccessCount, len(batch))

		if response.FailureCount > 0 {
			for idx, resp := range response.Responses {
				if !resp.Success {
					failedTokens = append(failedTokens, batch[idx])
				}
			}
		}
	}

	if len(failedTokens) > 0 {
		return fmt.Errorf("failed to send to %d/%d tokens", len(failedTokens), len(tokens))
	}

	log.Printf("✅ All FCM messages sent: %d tokens\n", successCount)
	return nil
}

func intPtr(i int) *int {
	return &i
}
