package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/cache"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/http/aichat"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// MockCompleter là mock cho Completer interface
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, messages []aichat.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockHistory là mock cho History interface
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Append(ctx context.Context, userID string, turns ...cache.ChatTurn) error {
	args := m.Called(ctx, userID, turns)
	return args.Error(0)
}

func (m *MockHistory) Recent(ctx context.Context, userID string) ([]cache.ChatTurn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cache.ChatTurn), args.Error(1)
}

// MockProductRepository là mock cho repository.ProductRepository interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...logger.Field)               {}
func (nopLogger) Info(string, ...logger.Field)                {}
func (nopLogger) Warn(string, ...logger.Field)                {}
func (nopLogger) Error(string, ...logger.Field)               {}
func (nopLogger) Fatal(string, ...logger.Field)               {}
func (n nopLogger) WithContext(context.Context) logger.Logger { return n }
func (n nopLogger) WithFields(...logger.Field) logger.Logger  { return n }
func (nopLogger) Sync() error                                 { return nil }

func TestService_Ask_IncludesCatalogContext(t *testing.T) {
	completer := new(MockCompleter)
	history := new(MockHistory)
	products := new(MockProductRepository)
	svc := NewService(completer, history, products, nopLogger{})

	listings := []*domain.Product{
		{Title: "The Go Programming Language", Author: "Donovan & Kernighan", Category: "programming", Price: 350000, StockQuantity: 3},
	}
	products.On("List", mock.Anything, repository.ProductFilter{Query: "go books", Limit: catalogMatchLimit}).
		Return(listings, nil)
	history.On("Recent", mock.Anything, "u-1").Return([]cache.ChatTurn{}, nil)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(messages []aichat.Message) bool {
		// system prompt đầu tiên phải chứa listing, message cuối là câu hỏi
		if len(messages) < 2 || messages[0].Role != "system" {
			return false
		}
		last := messages[len(messages)-1]
		return last.Role == "user" && last.Content == "go books" &&
			strings.Contains(messages[0].Content, "The Go Programming Language")
	})).Return("Try The Go Programming Language.", nil)
	history.On("Append", mock.Anything, "u-1", mock.Anything).Return(nil)

	reply, err := svc.Ask(context.Background(), "u-1", "go books")

	require.NoError(t, err)
	assert.Equal(t, "Try The Go Programming Language.", reply.Message)
	assert.Len(t, reply.Products, 1)
	completer.AssertExpectations(t)
}

func TestService_Ask_EmptyMessage(t *testing.T) {
	svc := NewService(new(MockCompleter), nil, nil, nopLogger{})

	_, err := svc.Ask(context.Background(), "u-1", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "message is empty")
}

func TestService_Ask_CatalogFailureStillAnswers(t *testing.T) {
	completer := new(MockCompleter)
	products := new(MockProductRepository)
	svc := NewService(completer, nil, products, nopLogger{})

	products.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	completer.On("Complete", mock.Anything, mock.Anything).Return("Hello!", nil)

	reply, err := svc.Ask(context.Background(), "u-1", "hello")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply.Message)
	assert.Empty(t, reply.Products)
}

func TestService_Ask_CompleterError(t *testing.T) {
	completer := new(MockCompleter)
	svc := NewService(completer, nil, nil, nopLogger{})

	completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	_, err := svc.Ask(context.Background(), "u-1", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai completion")
}

func TestService_Ask_HistoryCarriedIntoPrompt(t *testing.T) {
	completer := new(MockCompleter)
	history := new(MockHistory)
	svc := NewService(completer, history, nil, nopLogger{})

	history.On("Recent", mock.Anything, "u-1").Return([]cache.ChatTurn{
		{Role: "user", Content: "any detective novels?"},
		{Role: "assistant", Content: "Sherlock Holmes is in stock."},
	}, nil)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(messages []aichat.Message) bool {
		// system + 2 history turns + câu hỏi mới
		return len(messages) == 4 && messages[1].Content == "any detective novels?"
	})).Return("Yes, the full collection.", nil)
	history.On("Append", mock.Anything, "u-1", mock.Anything).Return(nil)

	reply, err := svc.Ask(context.Background(), "u-1", "the full collection?")

	require.NoError(t, err)
	assert.Equal(t, "Yes, the full collection.", reply.Message)
}
