package service

import (
	"context"
	"strings"
	"time"

	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
)

// ChatService answers support-chat messages with canned guidance matched by
// keyword. It is deliberately simple: no model, no history, just a small
// lookup table and a short delay so replies don't feel instantaneous.
type ChatService struct {
	delay time.Duration
}

// NewChatService creates a chat service with the given reply delay.
func NewChatService(delay time.Duration) *ChatService {
	return &ChatService{delay: delay}
}

// ChatRequest is an inbound support message.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatResponse is the canned reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type cannedReply struct {
	keywords []string
	reply    string
}

// Ordered: the first rule whose keyword appears in the message wins.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"craving", "urge", "tempted"},
		reply:    "Cravings are temporary and usually pass within 15-20 minutes. Try the 4 Ds: Delay, Distract, Deep breathe, Drink water. You've made it this far, and that strength is still with you.",
	},
	{
		keywords: []string{"relapse", "slipped", "drank"},
		reply:    "A slip doesn't erase your progress. What matters most is what you do next. Be kind to yourself, reach out to someone you trust, and consider what led up to it so you can plan for next time.",
	},
	{
		keywords: []string{"anxiety", "anxious", "stress", "stressed"},
		reply:    "Stress is one of the most common triggers. Try grounding yourself: name five things you can see, four you can touch, three you can hear. A short walk or a few slow breaths can change a moment.",
	},
	{
		keywords: []string{"support", "help", "alone", "lonely"},
		reply:    "You don't have to do this alone. Reaching out, like you just did, is a real step. Consider telling one person you trust how you're doing today, or look into a local or online support group.",
	},
}

const fallbackReply = "Thank you for sharing. Keeping a journal and checking in with yourself is a powerful habit. Is there something specific on your mind today, like a craving, stress, or finding support?"

// Respond returns the canned reply for a message after the configured delay.
// The delay is cancellable through the context.
func (s *ChatService) Respond(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	reply := fallbackReply
	message := strings.ToLower(req.Message)
matching:
	for _, rule := range cannedReplies {
		for _, kw := range rule.keywords {
			if strings.Contains(message, kw) {
				reply = rule.reply
				break matching
			}
		}
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, domainerrors.Wrap(ctx.Err(), domainerrors.CodeInternal, "chat canceled")
		case <-timer.C:
		}
	}

	return &ChatResponse{Reply: reply}, nil
}
