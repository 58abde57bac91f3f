package product

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// Cache là cache trang chi tiết sản phẩm; miss trả (nil, nil). Lỗi cache
// không bao giờ làm fail request.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, id string) error
}

type Service struct {
	repo   repository.ProductRepository
	cache  Cache
	logger logger.Logger
}

func NewService(repo repository.ProductRepository, cache Cache, log logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: log}
}

type CreateCommand struct {
	ShopID      string
	Title       string
	Author      string
	Category    string
	Description string
	Image       string
	Price       int64
	Stock       int
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Product, error) {
	p, err := domain.NewProduct(uuid.NewString(), cmd.ShopID, cmd.Title, cmd.Author, cmd.Category, cmd.Price, cmd.Stock)
	if err != nil {
		return nil, err
	}
	p.Description = cmd.Description
	p.Image = cmd.Image

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("product cache read failed", logger.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.Warn("product cache write failed", logger.Error(err))
		}
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.repo.List(ctx, filter)
}

type UpdateCommand struct {
	Title       string
	Author      string
	Category    string
	Description string
	Image       string
	Price       int64
	Stock       int
	// HasStock phân biệt "đặt stock = 0" với "không đổi stock".
	HasStock bool
}

// Update chỉ cho chủ shop hoặc admin sửa listing.
func (s *Service) Update(ctx context.Context, callerID, callerRole, id string, cmd UpdateCommand) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ShopID != callerID && callerRole != user.RoleAdmin {
		return nil, domain.ErrNotOwner
	}

	if cmd.Title != "" {
		p.Title = cmd.Title
	}
	if cmd.Author != "" {
		p.Author = cmd.Author
	}
	if cmd.Category != "" {
		p.Category = cmd.Category
	}
	if cmd.Description != "" {
		p.Description = cmd.Description
	}
	if cmd.Image != "" {
		p.Image = cmd.Image
	}
	if cmd.Price > 0 {
		p.Price = cmd.Price
	}
	if cmd.HasStock {
		if cmd.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		p.StockQuantity = cmd.Stock
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, callerID, callerRole, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.ShopID != callerID && callerRole != user.RoleAdmin {
		return domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("product cache invalidate failed", logger.Error(err))
	}
}
