package repository

import (
	"context"

	"health-advisory-chat/internal/domain/model"
)

// SessionStore is the single source of truth for chat sessions and the
// active-session pointer. Implementations must never be left holding
// zero sessions: deleting the last session creates a fresh replacement
// atomically.
type SessionStore interface {
	// Create allocates a new empty session, makes it active and returns it.
	Create(ctx context.Context) *model.ChatSession

	// Select moves the active pointer. Unknown ids return ErrSessionNotFound.
	Select(ctx context.Context, id string) error

	// Active returns the currently selected session.
	Active(ctx context.Context) (*model.ChatSession, error)

	FindByID(ctx context.Context, id string) (*model.ChatSession, error)

	// AppendUserMessage and AppendBotMessage construct the message,
	// append it and recompute the session's derived fields.
	AppendUserMessage(ctx context.Context, sessionID, content string) (model.Message, error)
	AppendBotMessage(ctx context.Context, sessionID, content string) (model.Message, error)

	EditMessage(ctx context.Context, sessionID, messageID, content string) error
	DeleteMessage(ctx context.Context, sessionID, messageID string) error

	// Delete removes a session. When the active session is deleted the
	// first remaining session (insertion order) becomes active; when
	// none remains a replacement is created and activated.
	Delete(ctx context.Context, id string) error

	// List returns all session summaries sorted by last-activity
	// timestamp descending, insertion order breaking ties.
	List(ctx context.Context) []model.SessionSummary
}
