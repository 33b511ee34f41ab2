package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	discordAPIBase = "https://discord.com/api/v10"
	// Discord message flag 1<<2 suppresses link-preview embeds so call
	// messages stay compact.
	suppressEmbedsFlag = 1 << 2
)

// Discord posts messages through the Discord REST API as a bot.
type Discord struct {
	BotToken string
	BaseURL  string
	Client   *http.Client
	log      zerolog.Logger
}

// NewDiscord creates a Discord notifier.
func NewDiscord(botToken string, log zerolog.Logger) *Discord {
	return &Discord{
		BotToken: botToken,
		BaseURL:  discordAPIBase,
		Client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "discord").Logger(),
	}
}

// Send posts content to a channel, classifying permission and missing-
// channel failures so callers can log them distinctly.
func (d *Discord) Send(ctx context.Context, channelID, content string) error {
	payload := map[string]any{
		"content": content,
		"flags":   suppressEmbedsFlag,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", d.BaseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+d.BotToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	switch resp.StatusCode {
	case http.StatusForbidden:
		d.log.Warn().Str("channel_id", channelID).Msg("bot lacks permission to post in channel")
		return fmt.Errorf("discord API status 403: %w", ErrPermissionDenied)
	case http.StatusNotFound:
		d.log.Warn().Str("channel_id", channelID).Msg("channel not found, may have been deleted")
		return fmt.Errorf("discord API status 404: %w", ErrChannelNotFound)
	default:
		return fmt.Errorf("discord API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
}

// RetrySender is a sender that can retry transient failures itself.
type RetrySender interface {
	SendWithRetry(ctx context.Context, channelID, content string, maxRetries int) error
}

// WithRetry adapts a RetrySender into a Notifier whose Send retries
// transient failures up to maxRetries times. Background delivery paths
// (performance bonus alerts, pinned-token alerts) use this; the scan
// dispatch loop sends once and moves on to keep cycles bounded.
func WithRetry(s RetrySender, maxRetries int) Notifier {
	return &retryNotifier{sender: s, maxRetries: maxRetries}
}

type retryNotifier struct {
	sender     RetrySender
	maxRetries int
}

func (r *retryNotifier) Send(ctx context.Context, channelID, content string) error {
	return r.sender.SendWithRetry(ctx, channelID, content, r.maxRetries)
}

// SendWithRetry sends with exponential backoff. Permanent channel failures
// (permission, missing channel) are not retried.
func (d *Discord) SendWithRetry(ctx context.Context, channelID, content string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := d.Send(ctx, channelID, content)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrChannelNotFound) {
			return err
		}
		lastErr = err
		backoff := time.Duration(1<<uint(i)) * time.Second
		d.log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("discord send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
