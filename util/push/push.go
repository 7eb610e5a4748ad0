// Package push delivers notifications to offline users through Firebase
// Cloud Messaging.
package push

import (
	"context"
	"fmt"

	"athlete-network/config"
	"athlete-network/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Message is a platform-neutral push payload.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier sends a message to a set of device tokens and returns the tokens
// the provider reported as no longer valid.
type Notifier interface {
	Send(ctx context.Context, tokens []string, msg Message) (invalid []string, err error)
}

// NoopNotifier drops every message. Used when push is disabled.
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, []string, Message) ([]string, error) { return nil, nil }

// multicaster is the part of *messaging.Client used here.
type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMNotifier sends through Firebase Cloud Messaging.
type FCMNotifier struct {
	client multicaster
}

// New returns an FCM notifier when push is enabled and a NoopNotifier otherwise.
func New(ctx context.Context, cfg config.PushConfig) (Notifier, error) {
	if !cfg.Enabled {
		logger.Info.Println("[PUSH] Push notifications disabled")
		return NoopNotifier{}, nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	logger.Info.Printf("[PUSH] Firebase Cloud Messaging ready (project %q)", cfg.ProjectID)
	return &FCMNotifier{client: client}, nil
}

func (n *FCMNotifier) Send(ctx context.Context, tokens []string, msg Message) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	resp, err := n.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  "/favicon.ico",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}
	if resp.FailureCount > 0 {
		logger.Warn.Printf("[PUSH] %d of %d deliveries failed", resp.FailureCount, len(tokens))
	}
	return invalidTokens(tokens, resp), nil
}

var isInvalidToken = func(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

func invalidTokens(tokens []string, resp *messaging.BatchResponse) []string {
	var invalid []string
	for i, r := range resp.Responses {
		if i >= len(tokens) {
			break
		}
		if r != nil && !r.Success && r.Error != nil && isInvalidToken(r.Error) {
			invalid = append(invalid, tokens[i])
		}
	}
	return invalid
}
