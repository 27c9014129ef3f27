// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"health-advisory-chat/internal/domain"
	"health-advisory-chat/internal/domain/model"
	"health-advisory-chat/internal/domain/ports/adapter"
	"health-advisory-chat/internal/domain/ports/repository"
	"health-advisory-chat/internal/infra/logging"
	"health-advisory-chat/internal/infra/metrics"
	"health-advisory-chat/internal/infra/worker"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// FallbackReply is returned whenever the model produced no usable text.
const FallbackReply = "Sorry, I couldn't understand that."

// advisoryPromptTemplate wraps every user question before it reaches
// the model. The wording is fixed; only the question varies.
const advisoryPromptTemplate = `
You are a multilingual health chatbot.
Respond ONLY in the same language as the user's question.
Follow verified WHO and ICMR guidelines.
If unsure, politely advise consulting a doctor.
The user's question is: "%s".
`

type ChatUseCase interface {
	NewChat(ctx context.Context) *model.ChatSession
	SelectChat(ctx context.Context, id string) error
	Session(ctx context.Context, id string) (*model.ChatSession, error)
	ActiveSession(ctx context.Context) (*model.ChatSession, error)
	History(ctx context.Context) []model.SessionSummary

	// SendMessage appends the user turn and resolves the bot turn
	// synchronously. Emergency messages are answered by triage without
	// a model call.
	SendMessage(ctx context.Context, sessionID, content string) (model.Message, string, error)

	// SendMessageAsync appends the user turn and dispatches the reply
	// round-trip to the worker pool. Deleting the session cancels the
	// in-flight request.
	SendMessageAsync(ctx context.Context, sessionID, content string) (model.Message, error)

	EditMessage(ctx context.Context, sessionID, messageID, content string) error
	DeleteMessage(ctx context.Context, sessionID, messageID string) error
	DeleteChat(ctx context.Context, id string) error

	// Reply is the stateless proxy path: triage plus one model turn,
	// touching no session state.
	Reply(ctx context.Context, message string) (string, error)
}

type chatUC struct {
	store    repository.SessionStore
	ai       adapter.AIServiceAdapter
	triage   TriageUseCase
	pool     *worker.Pool
	log      *zerolog.Logger
	provider string
	model    string
	window   int
	dev      bool

	inflight *inflightRegistry
}

func NewChatUseCase(
	store repository.SessionStore,
	ai adapter.AIServiceAdapter,
	triage TriageUseCase,
	pool *worker.Pool,
	logger *zerolog.Logger,
	provider, modelName string,
	historyWindow int,
	dev bool,
) *chatUC {
	return &chatUC{
		store:    store,
		ai:       ai,
		triage:   triage,
		pool:     pool,
		log:      logger,
		provider: provider,
		model:    modelName,
		window:   historyWindow,
		dev:      dev,
		inflight: newInflightRegistry(),
	}
}

func (c *chatUC) NewChat(ctx context.Context) *model.ChatSession {
	sess := c.store.Create(ctx)
	metrics.IncSession("created")
	return sess
}

func (c *chatUC) SelectChat(ctx context.Context, id string) error {
	return c.store.Select(ctx, id)
}

func (c *chatUC) Session(ctx context.Context, id string) (*model.ChatSession, error) {
	return c.store.FindByID(ctx, id)
}

func (c *chatUC) ActiveSession(ctx context.Context) (*model.ChatSession, error) {
	return c.store.Active(ctx)
}

func (c *chatUC) History(ctx context.Context) []model.SessionSummary {
	return c.store.List(ctx)
}

func (c *chatUC) SendMessage(ctx context.Context, sessionID, content string) (model.Message, string, error) {
	defer logging.TraceDuration(c.log, "ChatUC.SendMessage")()

	userMsg, advisory, done, err := c.acceptUserTurn(ctx, sessionID, content)
	if err != nil || done {
		return userMsg, advisory, err
	}

	rctx, finish := c.inflight.track(ctx, sessionID)
	defer finish()

	reply, err := c.generate(rctx, sessionID)
	if err != nil {
		return userMsg, "", err
	}
	c.appendReply(ctx, sessionID, reply)
	return userMsg, reply, nil
}

func (c *chatUC) SendMessageAsync(ctx context.Context, sessionID, content string) (model.Message, error) {
	userMsg, _, done, err := c.acceptUserTurn(ctx, sessionID, content)
	if err != nil || done {
		return userMsg, err
	}

	if err := c.pool.Submit(func(poolCtx context.Context) error {
		rctx, finish := c.inflight.track(poolCtx, sessionID)
		defer finish()

		reply, err := c.generate(rctx, sessionID)
		if errors.Is(err, context.Canceled) {
			c.log.Debug().Str("session_id", sessionID).Msg("reply cancelled")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reply for session %s: %w", sessionID, err)
		}
		c.appendReply(context.Background(), sessionID, reply)
		return nil
	}); err != nil {
		return userMsg, err
	}
	return userMsg, nil
}

// acceptUserTurn validates and appends the user message, then runs
// triage. When triage short-circuits, the advisory bot turn is appended
// immediately and done=true tells the caller there is nothing left to
// generate.
func (c *chatUC) acceptUserTurn(ctx context.Context, sessionID, content string) (model.Message, string, bool, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, "", false, domain.ErrEmptyMessage
	}

	userMsg, err := c.store.AppendUserMessage(ctx, sessionID, content)
	if err != nil {
		return model.Message{}, "", false, err
	}
	metrics.IncMessage(string(model.SenderUser))
	c.log.Debug().
		Str("session_id", sessionID).
		Str("message", logging.Redact(content, c.dev)).
		Msg("user message accepted")

	if advisory, emergency := c.triage.Screen(content); emergency {
		metrics.IncEmergencyBlock()
		c.appendReply(ctx, sessionID, advisory)
		return userMsg, advisory, true, nil
	}
	return userMsg, "", false, nil
}

// generate runs one reply round-trip over the session's recent history.
// The freshly appended user turn is wrapped in the advisory prompt
// template before it reaches the model.
func (c *chatUC) generate(ctx context.Context, sessionID string) (string, error) {
	sess, err := c.store.FindByID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	recent := sess.Recent(c.window)
	msgs := make([]adapter.Message, 0, len(recent))
	for _, m := range recent {
		role := "user"
		if m.Sender == model.SenderBot {
			role = "assistant"
		}
		msgs = append(msgs, adapter.Message{Role: role, Content: m.Content})
	}
	if n := len(msgs); n > 0 && msgs[n-1].Role == "user" {
		msgs[n-1].Content = fmt.Sprintf(advisoryPromptTemplate, msgs[n-1].Content)
	}

	start := time.Now()
	reply, usage, err := c.ai.ChatWithUsage(ctx, c.model, msgs)
	latency := int(time.Since(start).Milliseconds())
	metrics.ObserveChatUsage(c.provider, c.model,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, err == nil)
	if err != nil {
		metrics.IncReply("error")
		return "", err
	}
	if reply == "" {
		metrics.IncReply("fallback")
		return FallbackReply, nil
	}
	metrics.IncReply("ok")
	return reply, nil
}

// appendReply stores the bot turn. A session deleted while the reply
// was in flight loses the update; that is logged, never propagated.
func (c *chatUC) appendReply(ctx context.Context, sessionID, reply string) {
	if _, err := c.store.AppendBotMessage(ctx, sessionID, reply); err != nil {
		metrics.IncReplyDropped()
		c.log.Debug().Str("session_id", sessionID).Err(err).Msg("bot reply dropped")
		return
	}
	metrics.IncMessage(string(model.SenderBot))
}

func (c *chatUC) EditMessage(ctx context.Context, sessionID, messageID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrEmptyMessage
	}
	return c.store.EditMessage(ctx, sessionID, messageID, content)
}

func (c *chatUC) DeleteMessage(ctx context.Context, sessionID, messageID string) error {
	return c.store.DeleteMessage(ctx, sessionID, messageID)
}

func (c *chatUC) DeleteChat(ctx context.Context, id string) error {
	// Cancel before deleting so an in-flight reply cannot land on the
	// replacement session.
	c.inflight.cancel(id)
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.IncSession("deleted")
	return nil
}

func (c *chatUC) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrEmptyMessage
	}
	if advisory, emergency := c.triage.Screen(message); emergency {
		metrics.IncEmergencyBlock()
		return advisory, nil
	}

	prompt := fmt.Sprintf(advisoryPromptTemplate, message)
	start := time.Now()
	reply, usage, err := c.ai.ChatWithUsage(ctx, c.model, []adapter.Message{{Role: "user", Content: prompt}})
	latency := int(time.Since(start).Milliseconds())
	metrics.ObserveChatUsage(c.provider, c.model,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, err == nil)
	if err != nil {
		metrics.IncReply("error")
		return "", err
	}
	if reply == "" {
		metrics.IncReply("fallback")
		return FallbackReply, nil
	}
	metrics.IncReply("ok")
	return reply, nil
}

// inflightRegistry tracks cancel funcs for outstanding reply requests,
// keyed by session so DeleteChat can cancel everything for one session.
type inflightRegistry struct {
	mu sync.Mutex
	m  map[string]map[string]context.CancelFunc
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{m: make(map[string]map[string]context.CancelFunc)}
}

func (r *inflightRegistry) track(parent context.Context, sessionID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	reqID := uuid.NewString()
	r.mu.Lock()
	if r.m[sessionID] == nil {
		r.m[sessionID] = make(map[string]context.CancelFunc)
	}
	r.m[sessionID][reqID] = cancel
	r.mu.Unlock()

	return ctx, func() {
		r.mu.Lock()
		if reqs := r.m[sessionID]; reqs != nil {
			delete(reqs, reqID)
			if len(reqs) == 0 {
				delete(r.m, sessionID)
			}
		}
		r.mu.Unlock()
		cancel()
	}
}

func (r *inflightRegistry) cancel(sessionID string) {
	r.mu.Lock()
	reqs := r.m[sessionID]
	delete(r.m, sessionID)
	r.mu.Unlock()
	for _, cancel := range reqs {
		cancel()
	}
}
