package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"health-advisory-chat/internal/domain"
	"health-advisory-chat/internal/domain/model"
	"health-advisory-chat/internal/infra/logging"
)

const maxAudioBytes = 10 << 20

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleChat is the stateless proxy endpoint: body {"message"}, reply
// {"reply"}. It touches no session state.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := s.chatUC.Reply(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "Message is required")
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("chat reply failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.chatUC.NewChat(r.Context())
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sums := s.searchUC.Sessions(r.Context(), r.URL.Query().Get("q"))

	activeID := ""
	if active, err := s.chatUC.ActiveSession(r.Context()); err == nil {
		activeID = active.ID
	}
	writeJSON(w, http.StatusOK, struct {
		Data     []model.SessionSummary `json:"data"`
		ActiveID string                 `json:"active_id"`
	}{Data: sums, ActiveID: activeID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.chatUC.Session(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		msgs, err := s.searchUC.Messages(r.Context(), id, q)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		sess.Messages = msgs
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSelectSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.SelectChat(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.DeleteChat(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	// The store guarantees a replacement exists; report the new pointer.
	activeID := ""
	if active, err := s.chatUC.ActiveSession(r.Context()); err == nil {
		activeID = active.ID
	}
	writeJSON(w, http.StatusOK, struct {
		ActiveID string `json:"active_id"`
	}{ActiveID: activeID})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	ctx := logging.WithSessID(r.Context(), id)
	if r.URL.Query().Get("wait") == "1" {
		userMsg, reply, err := s.chatUC.SendMessage(ctx, id, req.Message)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Message model.Message `json:"message"`
			Reply   string        `json:"reply"`
		}{Message: userMsg, Reply: reply})
		return
	}

	userMsg, err := s.chatUC.SendMessageAsync(ctx, id, req.Message)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		Message model.Message `json:"message"`
	}{Message: userMsg})
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	err := s.chatUC.EditMessage(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "messageID"), req.Content)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := s.chatUC.DeleteMessage(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "messageID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.recognizer == nil {
		writeError(w, http.StatusNotImplemented, "speech recognition is not configured")
		return
	}
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio payload")
		return
	}
	text, err := s.recognizer.Transcribe(r.Context(), audio, r.Header.Get("Content-Type"))
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("transcription failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Text string `json:"text"`
	}{Text: text})
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
