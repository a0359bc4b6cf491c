package metadata

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader"
)

type ctxKey string

const loaderKey ctxKey = "metadataLoader"

// Loader batches and caches class metadata lookups for the lifetime of one request.
type Loader struct {
	Loader *dataloader.Loader
}

var _ Provider = (*Loader)(nil)

// NewLoader wraps a batch source. Lookups issued within wait of each other are
// sent to the source together.
func NewLoader(source BatchSource, wait time.Duration) *Loader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		classes := make([]string, len(keys))
		for i, k := range keys {
			classes[i] = k.String()
		}

		found, err := source.LoadClasses(ctx, classes)
		results := make([]*dataloader.Result, len(keys))
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Results must follow key order; unknown classes resolve to nil.
		for i, class := range classes {
			results[i] = &dataloader.Result{Data: found[class]}
		}
		return results
	}

	return &Loader{Loader: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(wait))}
}

// ClassMetadata implements Provider.
func (l *Loader) ClassMetadata(ctx context.Context, class string) (*ClassMetadata, error) {
	data, err := l.Loader.Load(ctx, dataloader.StringKey(class))()
	if err != nil {
		return nil, err
	}
	md, _ := data.(*ClassMetadata)
	return md, nil
}

// LoadMany fetches metadata of all classes in one batch and caches it, so later
// ClassMetadata calls for these classes do not reach the source. Entries follow
// classes order; unknown classes are nil.
func (l *Loader) LoadMany(ctx context.Context, classes []string) ([]*ClassMetadata, error) {
	data, errs := l.Loader.LoadMany(ctx, dataloader.NewKeysFromStrings(classes))()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	found := make([]*ClassMetadata, len(classes))
	for i := range classes {
		if i < len(data) {
			found[i], _ = data[i].(*ClassMetadata)
		}
	}
	return found, nil
}

// WithLoader stores a request scoped loader in ctx.
func WithLoader(ctx context.Context, loader *Loader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// LoaderFromContext returns the loader stored by WithLoader, or nil.
func LoaderFromContext(ctx context.Context) *Loader {
	if l, ok := ctx.Value(loaderKey).(*Loader); ok {
		return l
	}
	return nil
}
