package service

import (
	"context"
	"errors"

	"godha/internal/domain"
	"godha/internal/repository"
	"godha/internal/validation"
)

// ProductService инкапсулирует бизнес-логику вокруг каталога
type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func (s *ProductService) Create(ctx context.Context, in validation.ProductInput) (*domain.Product, error) {
	p := domain.Product{
		Name:          in.Name,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      in.Category,
		SubCategory:   in.SubCategory,
		Description:   in.Description,
		Images:        in.Images,
		Stock:         in.Stock,
		Sizes:         in.Sizes,
		Colors:        in.Colors,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Update применяет только присланные поля к существующему документу.
func (s *ProductService) Update(ctx context.Context, id string, patch validation.ProductPatch) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		p.OriginalPrice = patch.OriginalPrice
	} else if patch.ClearOriginalPrice {
		p.OriginalPrice = nil
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.SubCategory != nil {
		p.SubCategory = *patch.SubCategory
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Sizes != nil {
		p.Sizes = *patch.Sizes
	}
	if patch.Colors != nil {
		p.Colors = *patch.Colors
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}
