package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skyfare/booking/config"
	"github.com/skyfare/booking/internal/domain"
)

// RedisCache holds session drafts, seat-map and flight caches, and the
// commit-once keys that make seat-change commits idempotent.
type RedisCache struct {
	client     *redis.Client
	draftTTL   time.Duration
	seatMapTTL time.Duration
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, draftTTL, seatMapTTL, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		draftTTL:   draftTTL,
		seatMapTTL: seatMapTTL,
		flightsTTL: flightsTTL,
	}
}

// SaveDraft stores the draft as JSON and refreshes the session TTL. A draft
// that is not touched within the TTL is discarded.
func (c *RedisCache) SaveDraft(ctx context.Context, draft *domain.BookingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, draftKey(draft.ID), payload, c.draftTTL).Err()
}

// GetDraft returns (nil, nil) when the draft does not exist or has expired.
func (c *RedisCache) GetDraft(ctx context.Context, id string) (*domain.BookingDraft, error) {
	data, err := c.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var draft domain.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *RedisCache) DeleteDraft(ctx context.Context, id string) error {
	return c.client.Del(ctx, draftKey(id)).Err()
}

func (c *RedisCache) GetSeatMap(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error) {
	data, err := c.client.Get(ctx, seatMapKey(flightID, cabinClassID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var seats []domain.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

func (c *RedisCache) SetSeatMap(ctx context.Context, flightID, cabinClassID int64, seats []domain.Seat) error {
	payload, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatMapKey(flightID, cabinClassID), payload, c.seatMapTTL).Err()
}

// InvalidateSeatMap drops the cached seat map after occupancy changes.
func (c *RedisCache) InvalidateSeatMap(ctx context.Context, flightID, cabinClassID int64) error {
	return c.client.Del(ctx, seatMapKey(flightID, cabinClassID)).Err()
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// AcquireCommitOnce takes the idempotency key for a seat-change commit.
// The first caller wins; re-entry within the TTL reads the committed
// proposal instead of re-applying it.
func (c *RedisCache) AcquireCommitOnce(ctx context.Context, bookingCode string, passengerID, segmentID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, commitKey(bookingCode, passengerID, segmentID), "committed", ttl).Result()
}

func (c *RedisCache) ReleaseCommitOnce(ctx context.Context, bookingCode string, passengerID, segmentID int64) error {
	return c.client.Del(ctx, commitKey(bookingCode, passengerID, segmentID)).Err()
}

func draftKey(id string) string {
	return "draft:" + id
}

func seatMapKey(flightID, cabinClassID int64) string {
	return fmt.Sprintf("seatmap:flight:%d:class:%d", flightID, cabinClassID)
}

func flightsKey() string {
	return "cache:flights"
}

func commitKey(bookingCode string, passengerID, segmentID int64) string {
	return fmt.Sprintf("commit:seatchange:%s:%d:%d", bookingCode, passengerID, segmentID)
}
