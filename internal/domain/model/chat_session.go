package model

import (
	"time"
	"unicode/utf8"
)

const (
	DefaultTitle   = "New Chat"
	DefaultPreview = "Start a new conversation"

	titleMaxRunes   = 20
	previewMaxRunes = 30
)

// ChatSession is the aggregate root for one conversation thread.
// Title and Preview are derived from message content, never stored
// as independent ground truth.
type ChatSession struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Timestamp time.Time `json:"timestamp"` // last mutation, history sort key
}

// SessionSummary is the lightweight listing form of a session.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatSession(id string) *ChatSession {
	return &ChatSession{
		ID:        id,
		Messages:  make([]Message, 0, 8),
		Title:     DefaultTitle,
		Preview:   DefaultPreview,
		Timestamp: time.Now(),
	}
}

// AppendMessage adds a message and recomputes the derived fields.
// The title is set once: by the first message of the session when it
// comes from the user. Later messages never overwrite it.
func (s *ChatSession) AppendMessage(m Message) {
	if len(s.Messages) == 0 && m.Sender == SenderUser {
		s.Title = DeriveTitle(m.Content)
	}
	s.Messages = append(s.Messages, m)
	s.Preview = DerivePreview(m.Content)
	s.Timestamp = time.Now()
}

// RemoveMessage deletes the message with the given id and recomputes
// title and preview. Returns false when the id is not present.
func (s *ChatSession) RemoveMessage(messageID string) bool {
	idx := s.indexOf(messageID)
	if idx < 0 {
		return false
	}
	s.Messages = append(s.Messages[:idx], s.Messages[idx+1:]...)
	if len(s.Messages) == 0 {
		s.Title = DefaultTitle
		s.Preview = DefaultPreview
	} else {
		// The title stands as long as any user message remains; it is
		// never re-derived from a different message on deletion.
		if s.firstUserIndex() < 0 {
			s.Title = DefaultTitle
		}
		s.Preview = DerivePreview(s.Messages[len(s.Messages)-1].Content)
	}
	s.Timestamp = time.Now()
	return true
}

// EditMessage replaces the content of an existing message. Derived
// fields follow the edit when the message is the one they were derived
// from: the first user message for the title, the last message for the
// preview.
func (s *ChatSession) EditMessage(messageID, content string) bool {
	idx := s.indexOf(messageID)
	if idx < 0 {
		return false
	}
	s.Messages[idx].Content = content
	if idx == s.firstUserIndex() {
		s.Title = DeriveTitle(content)
	}
	if idx == len(s.Messages)-1 {
		s.Preview = DerivePreview(content)
	}
	s.Timestamp = time.Now()
	return true
}

// Recent returns the last n messages (all of them when n <= 0 or the
// session is shorter).
func (s *ChatSession) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

func (s *ChatSession) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Title:     s.Title,
		Preview:   s.Preview,
		Timestamp: s.Timestamp,
	}
}

func (s *ChatSession) indexOf(messageID string) int {
	for i := range s.Messages {
		if s.Messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

func (s *ChatSession) firstUserIndex() int {
	for i := range s.Messages {
		if s.Messages[i].Sender == SenderUser {
			return i
		}
	}
	return -1
}

// DeriveTitle truncates to 20 runes plus ellipsis.
func DeriveTitle(content string) string {
	return truncate(content, titleMaxRunes)
}

// DerivePreview truncates to 30 runes plus ellipsis.
func DerivePreview(content string) string {
	return truncate(content, previewMaxRunes)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
