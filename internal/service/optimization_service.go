package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seo-optimizer/internal/domain"
	"seo-optimizer/internal/generator"
	"seo-optimizer/internal/repository"
	"seo-optimizer/internal/shopify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultGeneratorTimeout bounds one Generate call
const DefaultGeneratorTimeout = 10 * time.Second

// OptimizationService defines the interface for the optimization workflow
type OptimizationService interface {
	LoadProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	RequestOptimization(ctx context.Context, req domain.OptimizationRequest) (domain.MetadataSuggestion, error)
	ApplyOptimization(ctx context.Context, id domain.ProductID, title, descriptionHTML string) (*domain.Product, error)
	History(ctx context.Context, id domain.ProductID) ([]*domain.AppliedOptimization, error)
	GeneratorName() string
}

// OptimizationOptions tunes the workflow
type OptimizationOptions struct {
	Shop             string
	GeneratorTimeout time.Duration
	// History is optional; nil disables the audit trail
	History repository.OptimizationRepository
}

type optimizationService struct {
	products         shopify.ProductRepository
	generator        generator.MetadataGenerator
	history          repository.OptimizationRepository
	shop             string
	generatorTimeout time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

// NewOptimizationService creates a new instance of OptimizationService
func NewOptimizationService(
	products shopify.ProductRepository,
	gen generator.MetadataGenerator,
	opts OptimizationOptions,
	logger *zap.Logger,
) OptimizationService {
	timeout := opts.GeneratorTimeout
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}

	return &optimizationService{
		products:         products,
		generator:        gen,
		history:          opts.History,
		shop:             opts.Shop,
		generatorTimeout: timeout,
		logger:           logger,
		now:              time.Now,
	}
}

// LoadProduct fetches the current title and description. A missing product is
// domain.ErrProductNotFound, never a placeholder.
func (s *optimizationService) LoadProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id.LocalID(), err)
	}
	return product, nil
}

// RequestOptimization asks the generator for a suggestion. ProductDescription must
// already be plain text. Nothing is written to the catalog.
func (s *optimizationService) RequestOptimization(ctx context.Context, req domain.OptimizationRequest) (domain.MetadataSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.generatorTimeout)
	defer cancel()

	start := time.Now()
	suggestion, err := s.generator.Generate(ctx, req)
	if err != nil {
		return domain.MetadataSuggestion{}, fmt.Errorf("%w: %w", domain.ErrGeneratorUnavailable, err)
	}

	s.logger.Debug("Generated metadata suggestion",
		zap.String("generator", s.generator.Name()),
		zap.Duration("duration", time.Since(start)),
	)

	return suggestion, nil
}

// ApplyOptimization writes title and descriptionHTML back to the catalog.
// Field rejections surface as *domain.ValidationError, catalog outages as
// *domain.TransportError.
func (s *optimizationService) ApplyOptimization(ctx context.Context, id domain.ProductID, title, descriptionHTML string) (*domain.Product, error) {
	var previousTitle string
	if s.history != nil {
		current, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", id.LocalID(), err)
		}
		previousTitle = current.Title
	}

	updated, err := s.products.Update(ctx, id, title, descriptionHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to apply optimization to product %s: %w", id.LocalID(), err)
	}

	if s.history != nil {
		record := &domain.AppliedOptimization{
			ID:            uuid.New(),
			Shop:          s.shop,
			ProductID:     id,
			PreviousTitle: previousTitle,
			NewTitle:      updated.Title,
			Generator:     s.generator.Name(),
			AppliedAt:     s.now().UTC(),
		}
		// The catalog is already updated; a lost audit row must not turn into a failed apply
		if err := s.history.Create(ctx, record); err != nil {
			s.logger.Error("Failed to record applied optimization",
				zap.String("product_id", id.ExternalID()),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

// ErrHistoryDisabled is returned by History when no store is configured
var ErrHistoryDisabled = errors.New("optimization history is not enabled")

// History lists applied optimizations for a product, newest first
func (s *optimizationService) History(ctx context.Context, id domain.ProductID) ([]*domain.AppliedOptimization, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}

	records, err := s.history.ListByProduct(ctx, s.shop, id, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimization history: %w", err)
	}
	return records, nil
}

func (s *optimizationService) GeneratorName() string {
	return s.generator.Name()
}
