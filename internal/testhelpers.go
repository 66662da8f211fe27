package internal

import (
	"time"
)

// CreateTestConversation creates a conversation with sample data
func CreateTestConversation(id string) *Conversation {
	return &Conversation{
		Session: Session{
			ID:        id,
			Label:     "Book a container",
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
		User: User{ID: "guest", Name: "Guest"},
		Messages: []Message{
			{Role: RoleUser, Content: "Book a container from Singapore to Chennai"},
			{Role: RoleAssistant, Content: "Your booking is confirmed.\nOrder ID: NTS-1234\nMode: SEA\nRoute: Singapore-Chennai"},
		},
		Orders: []Order{
			{ID: "NTS-1234", Mode: "SEA", Route: "Singapore-Chennai", Status: StatusInTransit},
		},
	}
}

// CreateTestConversationWithMessages creates a conversation with custom messages
func CreateTestConversationWithMessages(id string, messages []Message) *Conversation {
	c := CreateTestConversation(id)
	c.Messages = messages
	c.Orders = nil
	return c
}
