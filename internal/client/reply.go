// File: internal/client/reply.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fallback is substituted whenever the backend cannot be reached or
// answers with anything other than a usable reply.
const Fallback = "Sorry, I couldn't understand that."

// ReplyClient resolves a user message into a reply via POST /chat.
// GetReply never fails from the caller's point of view: transport and
// backend errors degrade to the fixed fallback string and a log line.
type ReplyClient struct {
	base   string
	client *http.Client
	log    *zerolog.Logger
}

func NewReplyClient(baseURL string, logger *zerolog.Logger) (*ReplyClient, error) {
	if baseURL == "" {
		return nil, errors.New("base url empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}
	return &ReplyClient{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger,
	}, nil
}

func (c *ReplyClient) GetReply(ctx context.Context, message string) string {
	payload := struct {
		Message string `json:"message"`
	}{Message: message}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat", bytes.NewReader(b))
	if err != nil {
		c.log.Error().Err(err).Msg("build chat request")
		return Fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("chat request failed")
		return Fallback
	}
	defer resp.Body.Close()

	var body struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Error().Err(err).Msg("decode chat response")
		return Fallback
	}
	if resp.StatusCode != http.StatusOK || body.Reply == "" {
		c.log.Error().Int("status", resp.StatusCode).Str("error", body.Error).Msg("chat backend error")
		return Fallback
	}
	return body.Reply
}
