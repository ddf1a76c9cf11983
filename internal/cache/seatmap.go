package cache

import (
	"context"
	"encoding/json"
	"time"

	"cinema-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatMap caches the per-show-time seat availability view for a short TTL.
// Staleness only affects UI display; the safety invariant is enforced at
// write time, so a few seconds of lag is acceptable. A nil client turns every
// call into a no-op.
type SeatMap struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewSeatMap(client *redis.Client, ttl time.Duration, log *zap.Logger) *SeatMap {
	return &SeatMap{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "seatmap_cache")),
	}
}

func seatMapKey(showTimeID uuid.UUID) string {
	return "seatmap:" + showTimeID.String()
}

func (c *SeatMap) Get(ctx context.Context, showTimeID uuid.UUID) ([]response.SeatView, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, seatMapKey(showTimeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Seat map cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var views []response.SeatView
	if err := json.Unmarshal(raw, &views); err != nil {
		c.log.Warn("Seat map cache entry corrupt", zap.Error(err))
		return nil, false
	}

	return views, true
}

func (c *SeatMap) Set(ctx context.Context, showTimeID uuid.UUID, views []response.SeatView) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(views)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, seatMapKey(showTimeID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Seat map cache write failed", zap.Error(err))
	}
}

func (c *SeatMap) Invalidate(ctx context.Context, showTimeID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, seatMapKey(showTimeID)).Err(); err != nil {
		c.log.Warn("Seat map cache invalidate failed", zap.Error(err))
	}
}
