package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTicketCreated   = "ticket.created"
	EventTypeChatMessageSent = "chat.message.sent"
)

type TicketCreatedEvent struct {
	BaseEvent
	TicketID   string `json:"ticket_id"`
	CustomerID string `json:"customer_id"`
	Subject    string `json:"subject"`
	Priority   string `json:"priority"`
	CreatedBy  string `json:"created_by"`
}

func NewTicketCreatedEvent(ticketID, customerID, subject, priority, createdBy string) *TicketCreatedEvent {
	return &TicketCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":   ticketID,
				"customer_id": customerID,
				"subject":     subject,
				"priority":    priority,
				"created_by":  createdBy,
			},
		},
		TicketID:   ticketID,
		CustomerID: customerID,
		Subject:    subject,
		Priority:   priority,
		CreatedBy:  createdBy,
	}
}

type ChatMessageSentEvent struct {
	BaseEvent
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}

func NewChatMessageSentEvent(messageID, conversationID, senderID, senderName, content string, sentAt time.Time) *ChatMessageSentEvent {
	return &ChatMessageSentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeChatMessageSent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message_id":      messageID,
				"conversation_id": conversationID,
				"sender_id":       senderID,
			},
		},
		MessageID:      messageID,
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		Content:        content,
		SentAt:         sentAt,
	}
}
