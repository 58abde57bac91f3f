package chat

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/cache"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/http/aichat"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

const catalogMatchLimit = 5

// Completer abstract AI client để dễ test.
type Completer interface {
	Complete(ctx context.Context, messages []aichat.Message) (string, error)
}

// History lưu các lượt hội thoại gần nhất của mỗi user.
type History interface {
	Append(ctx context.Context, userID string, turns ...cache.ChatTurn) error
	Recent(ctx context.Context, userID string) ([]cache.ChatTurn, error)
}

// Service là wrapper chat/search: ghép catalog match vào system prompt
// rồi pass-through câu hỏi sang model.
type Service struct {
	completer Completer
	history   History
	products  repository.ProductRepository
	logger    logger.Logger
}

func NewService(completer Completer, history History, products repository.ProductRepository, log logger.Logger) *Service {
	return &Service{
		completer: completer,
		history:   history,
		products:  products,
		logger:    log,
	}
}

// Reply là kết quả một lượt chat: câu trả lời của model cùng các
// listing đã đưa vào ngữ cảnh.
type Reply struct {
	Message  string
	Products []*domain.Product
}

func (s *Service) Ask(ctx context.Context, userID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}

	matches := s.findMatches(ctx, message)

	messages := []aichat.Message{
		{Role: "system", Content: buildSystemPrompt(matches)},
	}

	if s.history != nil {
		turns, err := s.history.Recent(ctx, userID)
		if err != nil {
			s.logger.Warn("read chat history failed", logger.Error(err))
		}
		for _, turn := range turns {
			messages = append(messages, aichat.Message{Role: turn.Role, Content: turn.Content})
		}
	}

	messages = append(messages, aichat.Message{Role: "user", Content: message})

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("ai completion: %w", err)
	}

	if s.history != nil {
		err := s.history.Append(ctx, userID,
			cache.ChatTurn{Role: "user", Content: message},
			cache.ChatTurn{Role: "assistant", Content: answer},
		)
		if err != nil {
			s.logger.Warn("append chat history failed", logger.Error(err))
		}
	}

	return &Reply{Message: answer, Products: matches}, nil
}

// findMatches tra catalog theo message; lỗi chỉ log, chat vẫn chạy
// không có ngữ cảnh sản phẩm.
func (s *Service) findMatches(ctx context.Context, message string) []*domain.Product {
	if s.products == nil {
		return nil
	}
	matches, err := s.products.List(ctx, repository.ProductFilter{
		Query: message,
		Limit: catalogMatchLimit,
	})
	if err != nil {
		s.logger.Warn("catalog lookup for chat failed", logger.Error(err))
		return nil
	}
	return matches
}

func buildSystemPrompt(matches []*domain.Product) string {
	var b strings.Builder
	b.WriteString("You are SmartBook, a helpful assistant for an online bookstore. ")
	b.WriteString("Answer briefly and recommend books from the listings below when relevant.")

	if len(matches) == 0 {
		b.WriteString(" No matching listings were found for this question.")
		return b.String()
	}

	b.WriteString("\n\nAvailable listings:")
	for _, p := range matches {
		fmt.Fprintf(&b, "\n- %s by %s (%s), %d VND, %d in stock",
			p.Title, p.Author, p.Category, p.Price, p.StockQuantity)
	}
	return b.String()
}
