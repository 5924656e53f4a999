package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/logger"
	"github.com/harentsoaR/medconnect-api/internal/models"
)

func TestNotificationService_PostsPayload(t *testing.T) {
	var (
		mu       sync.Mutex
		received []WebhookPayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload WebhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, logger.Discard())
	require.NotNil(t, svc)

	msg := models.Message{
		DoctorID:    primitive.NewObjectID(),
		PatientID:   primitive.NewObjectID(),
		Description: "hello",
		Date:        fixedNow,
	}
	ctx := logger.WithContext(context.Background(), "req-42", logger.Discard())
	svc.MessageDelivered(ctx, models.VariantDoctor, msg)
	svc.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "message.delivered", received[0].Event)
	assert.Equal(t, models.VariantDoctor, received[0].Recipient)
	assert.Equal(t, "req-42", received[0].RequestID)
	assert.Equal(t, msg.DoctorID, received[0].Message.DoctorID)
	assert.Equal(t, "hello", received[0].Message.Description)
}

func TestNotificationService_WebhookErrorIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, logger.Discard())
	svc.MessageDelivered(context.Background(), models.VariantPatient, models.Message{})
	svc.Wait()

	err := svc.post(WebhookPayload{Event: "message.delivered"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNotificationService_DisabledWithoutURL(t *testing.T) {
	svc := NewNotificationService("", logger.Discard())
	assert.Nil(t, svc)

	assert.NotPanics(t, func() {
		svc.MessageDelivered(context.Background(), models.VariantDoctor, models.Message{})
		svc.Wait()
	})
}
