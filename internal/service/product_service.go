package service

import (
	"context"
	"fmt"

	"seo-optimizer/internal/domain"
	"seo-optimizer/internal/shopify"
)

// DefaultListLimit is the number of products shown on the dashboard
const DefaultListLimit = 20

// ProductList is the dashboard listing. Empty is set when the catalog has no products
// so callers render an explicit empty state instead of an empty table.
type ProductList struct {
	Products []*domain.Product
	Empty    bool
}

// ProductService defines the interface for the product lister
type ProductService interface {
	ListProducts(ctx context.Context, limit int) (*ProductList, error)
}

type productService struct {
	products shopify.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(products shopify.ProductRepository) ProductService {
	return &productService{products: products}
}

// ListProducts returns the newest products; limit <= 0 means DefaultListLimit
func (s *productService) ListProducts(ctx context.Context, limit int) (*ProductList, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	products, err := s.products.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}

	return &ProductList{
		Products: products,
		Empty:    len(products) == 0,
	}, nil
}
