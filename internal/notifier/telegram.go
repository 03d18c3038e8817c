package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"comeback-digest-bot/internal/digest"
	"comeback-digest-bot/internal/util"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	sendTimeout     = 10 * time.Second
	retryDelay      = 3 * time.Second
)

// Client delivers digest text to a Telegram chat via the bot API.
type Client struct {
	apiBase    string
	botToken   string
	chatID     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(botToken, chatID string) *Client {
	return &Client{
		apiBase:    telegramAPIBase,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: sendTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers the text, chunked to the Telegram message size limit.
// Without a configured chat id the text is printed locally and
// reported as not delivered, with no error.
func (c *Client) Send(ctx context.Context, text string) (bool, error) {
	if c.chatID == "" {
		slog.Info("Telegram chat id not set, printing digest locally")
		fmt.Println(text)
		return false, nil
	}

	for _, chunk := range digest.Chunk(text, digest.MaxChunkSize) {
		if err := c.sendChunk(ctx, chunk); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (c *Client) sendChunk(ctx context.Context, chunk string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: chunk})
	if err != nil {
		return fmt.Errorf("failed to encode telegram payload: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)

	return util.RetryFixedDelay(ctx, 1, retryDelay, func(attempt int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("telegram request failed: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
		}

		var result sendMessageResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to decode telegram response: %w", err)
		}
		if !result.OK {
			return fmt.Errorf("telegram rejected message: %s", result.Description)
		}
		return nil
	})
}
