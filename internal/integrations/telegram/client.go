package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client клиент Telegram Bot API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиент. baseURL обычно https://api.telegram.org
func NewClient(baseURL, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessage отправляет текст в чат пользователя (chat id совпадает с telegram id)
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// токен в URL, поэтому текст ошибки транспорта не логируем целиком
		return fmt.Errorf("%w: failed to execute request to chat_id=%d", ErrInternal, chatID)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("%w: status %d, failed to decode response: %v", ErrInvalidResponse, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK && apiResp.Ok:
		c.log.Info("Telegram: message sent to chat_id=%d", chatID)
		return nil
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(apiResp.Description, "chat not found"),
		resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: chat_id=%d: %s", ErrChatNotFound, chatID, apiResp.Description)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, apiResp.Description)
	}
}
