// Package product содержит бизнес-логику каталога товаров продавца.
// Каждая операция ограничена владельцем: идентификатор пользователя
// берётся из проверенного токена, чужие товары не видны.
package product

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// ErrNameRequired у товара обязательно есть название.
var ErrNameRequired = errors.New("product name is required")

// Repository описывает контракт хранилища товаров.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) error
	GetProduct(ctx context.Context, productID, userID string) (*models.Product, error)
	ListProducts(ctx context.Context, userID string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, productID, userID string, upd models.ProductUpdate) (int, error)
	RemoveProduct(ctx context.Context, productID, userID string) (int, error)
}

// Invalidator сбрасывает производные данные пользователя после
// изменения каталога.
type Invalidator interface {
	InvalidateFor(userID string)
}

// ProductService реализует CRUD каталога товаров.
type ProductService struct {
	repo        Repository
	invalidator Invalidator
}

// New создает новый экземпляр ProductService.
// invalidator может быть nil.
func New(repo Repository, invalidator Invalidator) *ProductService {
	return &ProductService{repo: repo, invalidator: invalidator}
}

func (s *ProductService) invalidate(userID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateFor(userID)
	}
}

// CreateInput данные нового товара. Отсутствующие числовые поля
// трактуются как нули, строковые — как NULL.
type CreateInput struct {
	Name        string
	SKU         *string
	Category    *string
	CostPrice   int
	SellPrice   int
	Stock       int
	Description *string
	ImageURL    *string
}

// Create добавляет товар в каталог пользователя.
func (s *ProductService) Create(ctx context.Context, userID string, in CreateInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}

	p := models.Product{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		SKU:         in.SKU,
		Category:    in.Category,
		CostPrice:   in.CostPrice,
		SellPrice:   in.SellPrice,
		Stock:       in.Stock,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return s.repo.GetProduct(ctx, p.ID, userID)
}

// Get возвращает товар владельца.
func (s *ProductService) Get(ctx context.Context, productID, userID string) (*models.Product, error) {
	return s.repo.GetProduct(ctx, productID, userID)
}

// List возвращает каталог пользователя, новые товары первыми.
func (s *ProductService) List(ctx context.Context, userID string) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, userID)
}

// Update частично обновляет товар владельца.
func (s *ProductService) Update(ctx context.Context, productID, userID string, upd models.ProductUpdate) (*models.Product, error) {
	affected, err := s.repo.UpdateProduct(ctx, productID, userID, upd)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	s.invalidate(userID)
	return s.repo.GetProduct(ctx, productID, userID)
}

// Remove удаляет товар владельца.
func (s *ProductService) Remove(ctx context.Context, productID, userID string) error {
	affected, err := s.repo.RemoveProduct(ctx, productID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	s.invalidate(userID)
	return nil
}
