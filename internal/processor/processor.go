// Package processor completes entity API configuration: it fills the filters
// and sorters of an entity from its declared fields and the metadata of its
// class, never overriding attributes the configuration already sets.
package processor

import (
	"sort"

	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/domain"
)

// Context carries the configuration being completed for one class.
type Context struct {
	ClassName string
	Result    *domain.EntityConfig
	Filters   *domain.FiltersConfig
	Sorters   *domain.SortersConfig
	Logger    *zap.Logger
}

// NewContext creates a context for className. The filters and sorters start as
// copies of the sections declared inside result, or empty.
func NewContext(className string, result *domain.EntityConfig, logger *zap.Logger) *Context {
	if result == nil {
		result = domain.NewEntityConfig()
	}
	c := &Context{
		ClassName: className,
		Result:    result,
		Filters:   domain.NewFiltersConfig(),
		Sorters:   domain.NewSortersConfig(),
		Logger:    logger,
	}
	if result.Filters != nil {
		c.Filters = result.Filters.Clone()
	}
	if result.Sorters != nil {
		c.Sorters = result.Sorters.Clone()
	}
	return c
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Context) definition() *domain.EntityConfig {
	if c.Result == nil {
		c.Result = domain.NewEntityConfig()
	}
	return c.Result
}

// Processor is one step of the configuration build.
type Processor interface {
	Process(c *Context)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(c *Context)

func (f ProcessorFunc) Process(c *Context) {
	f(c)
}

// Chain runs processors in order.
type Chain []Processor

func (ch Chain) Process(c *Context) {
	for _, p := range ch {
		p.Process(c)
	}
}

// resolveFieldNames maps metadata property paths to the names of the entity
// fields backed by them. Undeclared paths are kept under their own name only
// when the entity exposes unlisted fields.
func resolveFieldNames(definition *domain.EntityConfig, byPropertyPath map[string]string) map[string]string {
	out := make(map[string]string, len(byPropertyPath))
	for propertyPath, dataType := range byPropertyPath {
		name := definition.FindFieldNameByPropertyPath(propertyPath)
		if name == "" {
			if definition.IsExcludeAll() {
				continue
			}
			if _, declared := definition.Field(propertyPath); declared {
				continue
			}
			name = propertyPath
		}
		out[name] = dataType
	}
	return out
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
