package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/harentsoaR/medconnect-api/internal/logger"
	"github.com/harentsoaR/medconnect-api/internal/models"
)

// WebhookPayload is posted to the notification webhook for each delivered message.
type WebhookPayload struct {
	Event     string         `json:"event"`
	Recipient models.Variant `json:"recipient"`
	Message   models.Message `json:"message"`
	RequestID string         `json:"requestId,omitempty"`
}

// NotificationService posts delivered messages to a webhook. Posts run in
// the background so they never delay the API response.
type NotificationService struct {
	url    string
	client *http.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewNotificationService returns nil when url is empty; callers treat a nil
// notifier as disabled.
func NewNotificationService(url string, logger *slog.Logger) *NotificationService {
	if url == "" {
		return nil
	}
	return &NotificationService{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

func (s *NotificationService) MessageDelivered(ctx context.Context, recipient models.Variant, msg models.Message) {
	if s == nil {
		return
	}

	payload := WebhookPayload{
		Event:     "message.delivered",
		Recipient: recipient,
		Message:   msg,
		RequestID: logger.RequestID(ctx),
	}
	log := logger.FromContext(ctx, s.logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.post(payload); err != nil {
			log.Warn("message notification failed", slog.Any("error", err))
			return
		}
		log.Debug("message notification sent", slog.String("recipient", string(recipient)))
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *NotificationService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

func (s *NotificationService) post(payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
