package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
)

// AvailabilityCache stores slot discovery results per salon. Each salon has
// a version counter embedded in every key; bumping it orphans all cached
// queries of that salon at once.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(ctx context.Context, url string, ttl time.Duration) (*AvailabilityCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &AvailabilityCache{client: client, ttl: ttl}, nil
}

func versionKey(salonID uint) string {
	return fmt.Sprintf("spa:avail:%d:ver", salonID)
}

func queryKey(q domain.SlotQuery, version int64) string {
	service := "any"
	if q.ServiceID != nil {
		service = fmt.Sprintf("%d", *q.ServiceID)
	}
	return fmt.Sprintf("spa:avail:%d:v%d:svc:%s:lim:%d", q.SalonID, version, service, q.Limit)
}

// Get returns the cached result, if any, together with the salon version it
// was read under. Pass that version back to Set.
func (c *AvailabilityCache) Get(ctx context.Context, q domain.SlotQuery) ([]domain.AvailableSlot, int64, bool) {
	version, err := c.client.Get(ctx, versionKey(q.SalonID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("[Cache] version read failed for salon %d: %v", q.SalonID, err)
		return nil, 0, false
	}

	data, err := c.client.Get(ctx, queryKey(q, version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] read failed for salon %d: %v", q.SalonID, err)
		}
		return nil, version, false
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		log.Printf("[Cache] corrupt entry for salon %d: %v", q.SalonID, err)
		return nil, version, false
	}

	return slots, version, true
}

func (c *AvailabilityCache) Set(ctx context.Context, q domain.SlotQuery, version int64, slots []domain.AvailableSlot) {
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, queryKey(q, version), data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] write failed for salon %d: %v", q.SalonID, err)
	}
}

func (c *AvailabilityCache) InvalidateSalon(ctx context.Context, salonID uint) {
	if err := c.client.Incr(ctx, versionKey(salonID)).Err(); err != nil {
		log.Printf("[Cache] invalidate failed for salon %d: %v", salonID, err)
	}
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}
