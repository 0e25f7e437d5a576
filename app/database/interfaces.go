package database

import (
	"context"
)

type DeliveryRepository interface {
	Record(ctx context.Context, delivery *Delivery) error
	List(ctx context.Context, source string, limit int) ([]Delivery, error)
	Stats(ctx context.Context) (*DeliveryStats, error)
}

var _ DeliveryRepository = (*SQLDeliveryRepository)(nil)
