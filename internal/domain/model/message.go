package model

import (
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type MessageStatus string

const (
	MessageSending MessageStatus = "sending"
	MessageSent    MessageStatus = "sent"
	MessageError   MessageStatus = "error"
)

// Message is one turn of a conversation. It is immutable after append
// except for explicit edit or removal through the owning session.
type Message struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Sender    Sender        `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status,omitempty"`
}

func NewMessage(id string, sender Sender, content string) Message {
	return Message{
		ID:        id,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Status:    MessageSent,
	}
}
