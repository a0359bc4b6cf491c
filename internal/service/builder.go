// Package service builds completed API configuration for entity classes from
// their raw configuration and class metadata.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
	"github.com/rpattn/apiconf/internal/processor"
	"github.com/rpattn/apiconf/internal/schema/validator"
)

// Result is the completed configuration of one class.
type Result struct {
	Class      string
	Definition *domain.EntityConfig
	Filters    *domain.FiltersConfig
	Sorters    *domain.SortersConfig
}

// ToMap renders the result as a configuration tree.
func (r *Result) ToMap() map[string]any {
	return map[string]any{
		"class":      r.Class,
		"definition": r.Definition.ToMap(),
		"filters":    r.Filters.ToMap(),
		"sorters":    r.Sorters.ToMap(),
	}
}

// Builder completes entity configuration.
type Builder struct {
	source              Source
	provider            metadata.Provider
	loaders             *apiconfig.LoaderFactory
	associationDataType string
	logger              *zap.Logger
}

// Option customises a Builder.
type Option func(*Builder)

// WithLoaderFactory replaces the default configuration loaders.
func WithLoaderFactory(loaders *apiconfig.LoaderFactory) Option {
	return func(b *Builder) {
		b.loaders = loaders
	}
}

// WithAssociationDataType sets the data type of extended association filters.
func WithAssociationDataType(dataType string) Option {
	return func(b *Builder) {
		b.associationDataType = dataType
	}
}

// WithLogger sets the logger handed to processors.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a builder reading configuration from source and metadata
// from provider. A metadata loader attached to the build context takes
// precedence over provider.
func NewBuilder(source Source, provider metadata.Provider, opts ...Option) *Builder {
	b := &Builder{
		source:              source,
		provider:            provider,
		loaders:             apiconfig.NewLoaderFactory(nil),
		associationDataType: domain.DataTypeInteger,
		logger:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build loads, validates and completes the configuration of class.
func (b *Builder) Build(ctx context.Context, class string) (*Result, error) {
	raw, err := b.source.Document(ctx, class)
	if err != nil {
		return nil, err
	}

	definition, err := b.loaders.LoadEntity(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration of %s: %w", class, err)
	}
	if err := validator.ValidateEntityConfig(definition); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apiconfig.ErrInvalidConfig, class, err)
	}
	if definition.Filters != nil {
		if err := validator.ValidateFiltersConfig(definition.Filters); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", apiconfig.ErrInvalidConfig, class, err)
		}
	}

	md, err := b.metadataProvider(ctx).ClassMetadata(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata of %s: %w", class, err)
	}
	// A class without metadata is not manageable; its configuration is kept as declared.
	registry := metadata.NewRegistry()
	if md != nil {
		snapshot := *md
		snapshot.Class = class
		registry.Add(&snapshot)
	}

	c := processor.NewContext(class, definition, b.logger)
	processor.Chain{
		processor.NewCompleteDefinition(registry),
		processor.NewCompleteFilters(registry, processor.WithAssociationDataType(b.associationDataType)),
		processor.NewCompleteSorters(registry),
	}.Process(c)

	result := &Result{
		Class:      class,
		Definition: c.Result,
		Filters:    c.Filters,
		Sorters:    c.Sorters,
	}
	result.Definition.Filters = nil
	result.Definition.Sorters = nil

	b.logger.Debug("Built entity configuration",
		zap.String("class", class),
		zap.Int("filters", len(result.Filters.FieldNames())),
		zap.Int("sorters", len(result.Sorters.FieldNames())),
	)
	return result, nil
}

// BuildAll builds every class the source knows, in source order.
func (b *Builder) BuildAll(ctx context.Context) ([]*Result, error) {
	classes, err := b.source.Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list configured classes: %w", err)
	}
	if err := b.Prefetch(ctx, classes...); err != nil {
		return nil, err
	}
	results := make([]*Result, 0, len(classes))
	for _, class := range classes {
		result, err := b.Build(ctx, class)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Prefetch loads the metadata of classes in a single batch when the metadata
// provider is a batching loader. Later builds of these classes are answered
// from its cache.
func (b *Builder) Prefetch(ctx context.Context, classes ...string) error {
	loader, ok := b.metadataProvider(ctx).(*metadata.Loader)
	if !ok || len(classes) == 0 {
		return nil
	}
	if _, err := loader.LoadMany(ctx, classes); err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	return nil
}

func (b *Builder) metadataProvider(ctx context.Context) metadata.Provider {
	if loader := metadata.LoaderFromContext(ctx); loader != nil {
		return loader
	}
	if b.provider == nil {
		return metadata.NewRegistry()
	}
	return b.provider
}
