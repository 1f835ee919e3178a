package repository

import (
	"context"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
)

// OrderRepository defines the interface for loading order events from a
// remote or local source.
type OrderRepository interface {
	LoadOrders(ctx context.Context, opts entity.LoadOptions) (*entity.OrderLoadResult, error)
}
