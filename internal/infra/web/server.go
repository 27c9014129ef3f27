package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"health-advisory-chat/internal/domain/ports/adapter"
	"health-advisory-chat/internal/usecase"
)

// Server wires the chat API: the stateless proxy on POST /chat plus
// the session API under /api/v1.
type Server struct {
	chatUC     usecase.ChatUseCase
	searchUC   usecase.SearchUseCase
	recognizer adapter.SpeechRecognizer // nil when the capability is absent
	log        *zerolog.Logger
}

func NewServer(
	chatUC usecase.ChatUseCase,
	searchUC usecase.SearchUseCase,
	recognizer adapter.SpeechRecognizer,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		chatUC:     chatUC,
		searchUC:   searchUC,
		recognizer: recognizer,
		log:        logger,
	}
}

// Router builds the chi router with the common middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(CORS())

	r.Post("/chat", s.handleChat)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/select", s.handleSelectSession)
				r.Post("/messages", s.handleSendMessage)
				r.Patch("/messages/{messageID}", s.handleEditMessage)
				r.Delete("/messages/{messageID}", s.handleDeleteMessage)
			})
		})
		r.Post("/transcribe", s.handleTranscribe)
	})

	return r
}
