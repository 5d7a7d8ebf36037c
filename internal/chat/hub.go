package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/cxm/internal/core/events"
)

const defaultSubscriberBuffer = 32

// Hub fans out new messages to the live streams of each conversation.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[chan *Message]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[chan *Message]struct{}),
		logger: logger,
	}
}

func (h *Hub) Subscribe(conversationID string, buffer int) chan *Message {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan *Message, buffer)
	h.mu.Lock()
	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[chan *Message]struct{})
	}
	h.subs[conversationID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe is safe to call more than once.
func (h *Hub) Unsubscribe(conversationID string, ch chan *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[conversationID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.subs, conversationID)
	}
}

// Broadcast never blocks; slow subscribers miss the message.
func (h *Hub) Broadcast(m *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[m.ConversationID] {
		select {
		case ch <- m:
		default:
			h.logger.Warn("dropping chat message for slow subscriber", "conversation_id", m.ConversationID)
		}
	}
}

func (h *Hub) Subscribers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}

func (h *Hub) HandleMessageSent(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ChatMessageSentEvent)
	if !ok {
		return nil
	}
	h.Broadcast(&Message{
		ID:             e.MessageID,
		ConversationID: e.ConversationID,
		SenderID:       e.SenderID,
		SenderName:     e.SenderName,
		Content:        e.Content,
		CreatedAt:      e.SentAt,
	})
	return nil
}

func (h *Hub) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeChatMessageSent, h.HandleMessageSent)
}
