package usecase

import (
	"context"
	"errors"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/response"

	"github.com/google/uuid"
)

// Notifier is the publish hook for "seat map changed" events. Delivery is
// at-most-once and never awaited; the reservation core's correctness never
// depends on a publish succeeding.
type Notifier interface {
	NotifyShowTimeChanged(ctx context.Context, showTimeID uuid.UUID) error
}

// SeatMapCache is the short-TTL cache of the seat availability view.
// Implementations must tolerate being backed by nothing at all.
type SeatMapCache interface {
	Get(ctx context.Context, showTimeID uuid.UUID) ([]response.SeatView, bool)
	Set(ctx context.Context, showTimeID uuid.UUID, views []response.SeatView)
	Invalidate(ctx context.Context, showTimeID uuid.UUID)
}

// retryTransient runs fn, repeating it exactly once if it failed on a
// transaction/commit race. Anything still failing after the retry is
// surfaced to the caller.
func retryTransient(fn func() error) error {
	err := fn()
	var transient *entity.TransientStorageError
	if errors.As(err, &transient) {
		err = fn()
	}
	return err
}
