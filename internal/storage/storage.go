package storage

import (
	"context"

	"angleYield/internal/model"
)

// Sink receives the pools of one normalization pass.
type Sink interface {
	PutPools(ctx context.Context, pools []model.Pool) error
}
