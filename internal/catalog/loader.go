package catalog

import (
	"context"
	"fmt"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/models"
	"inventory-console/internal/redisclient"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// Loader retrieves the candidate line-item catalog and counterparty lists.
// Reads go through a Redis snapshot cache with the database as source of
// truth. A failed load never overwrites a previously cached snapshot.
type Loader struct {
	store    *store.Store
	redis    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewLoader creates a catalog loader
func NewLoader(store *store.Store, redis *redisclient.Client, cacheTTL time.Duration) *Loader {
	return &Loader{
		store:    store,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   util.NamedLogger("catalog"),
	}
}

// LoadCatalog fetches the product catalog, optionally scoped to one
// supplier ("only show products sourced from this supplier").
func (l *Loader) LoadCatalog(ctx context.Context, supplierID string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "Loader.LoadCatalog")
	defer span.End()

	scope := "products"
	if supplierID != "" {
		scope = fmt.Sprintf("products:%s", supplierID)
	}

	var cached []models.Product
	if hit, err := l.redis.GetSnapshot(ctx, scope, &cached); err == nil && hit {
		util.CatalogLoadsTotal.WithLabelValues("cache").Inc()
		return cached, nil
	} else if err != nil {
		l.logger.Warn("Snapshot cache read failed", zap.String("scope", scope), zap.Error(err))
	}

	var (
		products []models.Product
		err      error
	)
	if supplierID != "" {
		products, err = l.store.GetProductsBySupplier(ctx, supplierID)
	} else {
		products, err = l.store.GetAllProducts(ctx)
	}
	if err != nil {
		util.CatalogLoadFailures.Inc()
		return nil, &builder.FetchError{Resource: scope, Err: err}
	}

	util.CatalogLoadsTotal.WithLabelValues("db").Inc()
	if err := l.redis.SetSnapshot(ctx, scope, products, l.cacheTTL); err != nil {
		l.logger.Warn("Snapshot cache write failed", zap.String("scope", scope), zap.Error(err))
	}
	return products, nil
}

// LoadCounterparties fetches the eligible counterparties for a draft kind:
// suppliers for purchase orders, customers for sales orders. Returns
// display names keyed by ID.
func (l *Loader) LoadCounterparties(ctx context.Context, kind string) (map[string]string, error) {
	ctx, span := util.StartSpan(ctx, "Loader.LoadCounterparties")
	defer span.End()

	switch kind {
	case models.OrderKindPurchase:
		suppliers, err := l.store.ListSuppliers(ctx)
		if err != nil {
			util.CatalogLoadFailures.Inc()
			return nil, &builder.FetchError{Resource: "suppliers", Err: err}
		}
		out := make(map[string]string, len(suppliers))
		for _, s := range suppliers {
			if s.Status == models.PartyStatusInactive {
				continue
			}
			out[s.ID] = fmt.Sprintf("%s - %s", s.Name, s.CompanyName)
		}
		return out, nil

	case models.OrderKindSales:
		customers, err := l.store.ListCustomers(ctx)
		if err != nil {
			util.CatalogLoadFailures.Inc()
			return nil, &builder.FetchError{Resource: "customers", Err: err}
		}
		out := make(map[string]string, len(customers))
		for _, c := range customers {
			if c.Status == models.PartyStatusInactive {
				continue
			}
			out[c.ID] = fmt.Sprintf("%s - %s", c.Name, c.CompanyName)
		}
		return out, nil

	default:
		return nil, &builder.ValidationError{Msg: fmt.Sprintf("unknown order kind: %s", kind)}
	}
}

// Snapshot loads everything a new draft needs in one call.
func (l *Loader) Snapshot(ctx context.Context, kind, supplierID string) (*builder.Catalog, error) {
	products, err := l.LoadCatalog(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	counterparties, err := l.LoadCounterparties(ctx, kind)
	if err != nil {
		return nil, err
	}
	return builder.NewCatalog(products, counterparties), nil
}

// Invalidate drops cached snapshots after catalog mutations.
func (l *Loader) Invalidate(ctx context.Context, scopes ...string) {
	if len(scopes) == 0 {
		scopes = []string{"products"}
	}
	if err := l.redis.InvalidateSnapshot(ctx, scopes...); err != nil {
		l.logger.Warn("Snapshot invalidation failed", zap.Error(err))
	}
}
