package aichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/config"
)

// Client gọi một chat-completions API tương thích OpenAI. Chỉ là
// pass-through mỏng: request/response được type chặt, lỗi non-200 trả
// thẳng về caller.
type Client struct {
	httpClient *http.Client
	cfg        config.AIConfig
}

func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Message là một lượt hội thoại gửi lên model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete gửi hội thoại lên model và trả về nội dung câu trả lời đầu tiên.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("ai api key is empty")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("messages is empty")
	}

	body, err := json.Marshal(completionRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ai api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai api status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("ai api returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
