// File: internal/usecase/search_uc.go
package usecase

import (
	"context"
	"strings"

	"health-advisory-chat/internal/domain/model"
	"health-advisory-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ SearchUseCase = (*searchUC)(nil)

// SearchUseCase is a read-only, case-insensitive substring filter over
// the store. Results are recomputed per query; no index is kept.
type SearchUseCase interface {
	// Sessions filters the history listing on title or preview. A blank
	// query means "no active search" and returns the unfiltered listing.
	Sessions(ctx context.Context, query string) []model.SessionSummary

	// Messages filters one session's messages on content. A blank query
	// returns every message.
	Messages(ctx context.Context, sessionID, query string) ([]model.Message, error)
}

type searchUC struct {
	store repository.SessionStore
}

func NewSearchUseCase(store repository.SessionStore) *searchUC {
	return &searchUC{store: store}
}

func (s *searchUC) Sessions(ctx context.Context, query string) []model.SessionSummary {
	all := s.store.List(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]model.SessionSummary, 0, len(all))
	for _, sum := range all {
		if strings.Contains(strings.ToLower(sum.Title), q) ||
			strings.Contains(strings.ToLower(sum.Preview), q) {
			out = append(out, sum)
		}
	}
	return out
}

func (s *searchUC) Messages(ctx context.Context, sessionID, query string) ([]model.Message, error) {
	sess, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return sess.Messages, nil
	}
	out := make([]model.Message, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	return out, nil
}
