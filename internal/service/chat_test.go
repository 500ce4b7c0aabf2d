package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

func TestChatKeywordMatching(t *testing.T) {
	svc := service.NewChatService(0)
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"craving", "I'm having a strong craving right now", "Cravings"},
		{"relapse", "I slipped last night", "slip"},
		{"stress", "work has me so stressed", "Stress"},
		{"support", "I feel really alone in this", "alone"},
		{"fallback", "the weather is nice today", "journal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Respond(ctx, service.ChatRequest{Message: tt.message})
			require.NoError(t, err)
			assert.Contains(t, strings.ToLower(resp.Reply), strings.ToLower(tt.want))
		})
	}
}

func TestChatCaseInsensitive(t *testing.T) {
	svc := service.NewChatService(0)

	resp, err := svc.Respond(context.Background(), service.ChatRequest{Message: "CRAVING!!!"})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "Cravings")
}

func TestChatRequiresMessage(t *testing.T) {
	svc := service.NewChatService(0)

	_, err := svc.Respond(context.Background(), service.ChatRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestChatDelayCancellable(t *testing.T) {
	svc := service.NewChatService(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.Respond(ctx, service.ChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "cancel must not wait out the delay")
}
