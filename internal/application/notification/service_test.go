package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// MockUserRepository là mock cho repository.UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
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

func sampleEvent() avro.OrderPlacedEvent {
	return avro.OrderPlacedEvent{
		OrderID:        "o-1",
		TransactionRef: "tx-1",
		BuyerID:        "buyer-1",
		ShopID:         "shop-1",
		TotalPrice:     195000,
		ItemCount:      2,
	}
}

func TestService_HandleOrderPlaced(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, nopLogger{})

	repo.On("FindByID", mock.Anything, "shop-1").
		Return(&domain.User{ID: "shop-1", Email: "shop@example.com"}, nil)

	err := svc.HandleOrderPlaced(context.Background(), sampleEvent())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_HandleOrderPlaced_UnknownShopSkipped(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, nopLogger{})

	repo.On("FindByID", mock.Anything, "shop-1").Return(nil, domain.ErrNotFound)

	err := svc.HandleOrderPlaced(context.Background(), sampleEvent())

	// không được trả lỗi, tránh chặn cả consumer group
	require.NoError(t, err)
}

func TestService_HandleOrderPlaced_RepoError(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, nopLogger{})

	repo.On("FindByID", mock.Anything, "shop-1").Return(nil, errors.New("db down"))

	err := svc.HandleOrderPlaced(context.Background(), sampleEvent())

	assert.Error(t, err)
}
