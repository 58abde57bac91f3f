package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatHistoryTTL = 24 * time.Hour
	chatHistoryMax = 20
)

// ChatTurn là một lượt hội thoại đã lưu.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistory giữ 20 lượt hội thoại gần nhất của mỗi user trong redis.
type ChatHistory struct {
	client *redis.Client
}

func NewChatHistory(client *redis.Client) *ChatHistory {
	return &ChatHistory{client: client}
}

func (h *ChatHistory) key(userID string) string {
	return "chat:history:" + userID
}

func (h *ChatHistory) Append(ctx context.Context, userID string, turns ...ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		raw, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode chat turn: %w", err)
		}
		values = append(values, raw)
	}

	pipe := h.client.Pipeline()
	pipe.RPush(ctx, h.key(userID), values...)
	pipe.LTrim(ctx, h.key(userID), -chatHistoryMax, -1)
	pipe.Expire(ctx, h.key(userID), chatHistoryTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (h *ChatHistory) Recent(ctx context.Context, userID string) ([]ChatTurn, error) {
	raws, err := h.client.LRange(ctx, h.key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}

	turns := make([]ChatTurn, 0, len(raws))
	for _, raw := range raws {
		var turn ChatTurn
		if err := json.Unmarshal([]byte(raw), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
