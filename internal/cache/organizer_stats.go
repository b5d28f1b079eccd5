package cache

import (
	"context"
	"fmt"

	"eventhub/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OrganizerStatsCache 主辦方儀表板彙總的快取。
// worker 針對已提交的購買做增量更新；cache miss 時由 service
// 從 SQL 聚合回填。
type OrganizerStatsCache interface {
	// Get 回傳快取的彙總；miss 時回傳 (nil, nil)
	Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error)
	Set(ctx context.Context, organizerID uuid.UUID, stats *model.OrganizerStats) error
	// ApplyPurchase 快取存在時原子累加出席數與營收；不存在時不動作，
	// 等下一次 Get miss 走 SQL 回填
	ApplyPurchase(ctx context.Context, organizerID uuid.UUID, quantity int, revenue float64) error
}

type RedisOrganizerStatsCache struct {
	client *redis.Client
}

func NewRedisOrganizerStatsCache(client *redis.Client) OrganizerStatsCache {
	return &RedisOrganizerStatsCache{
		client: client,
	}
}

func (c *RedisOrganizerStatsCache) statsKey(organizerID uuid.UUID) string {
	return fmt.Sprintf("organizer:%s:stats", organizerID)
}

func (c *RedisOrganizerStatsCache) Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, error) {
	result, err := c.client.HGetAll(ctx, c.statsKey(organizerID)).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	var stats model.OrganizerStats
	if _, err := fmt.Sscanf(result["total_events"], "%d", &stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("invalid total_events: %v", err)
	}
	if _, err := fmt.Sscanf(result["total_attendees"], "%d", &stats.TotalAttendees); err != nil {
		return nil, fmt.Errorf("invalid total_attendees: %v", err)
	}
	if _, err := fmt.Sscanf(result["total_revenue"], "%f", &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("invalid total_revenue: %v", err)
	}

	return &stats, nil
}

func (c *RedisOrganizerStatsCache) Set(ctx context.Context, organizerID uuid.UUID, stats *model.OrganizerStats) error {
	return c.client.HSet(ctx, c.statsKey(organizerID), map[string]interface{}{
		"total_events":    stats.TotalEvents,
		"total_attendees": stats.TotalAttendees,
		"total_revenue":   stats.TotalRevenue,
	}).Err()
}

var applyPurchaseScript = redis.NewScript(`
	local key = KEYS[1]
	local qty = tonumber(ARGV[1])
	local revenue = ARGV[2]

	if redis.call('EXISTS', key) == 0 then
		return 0
	end

	redis.call('HINCRBY', key, 'total_attendees', qty)
	redis.call('HINCRBYFLOAT', key, 'total_revenue', revenue)
	return 1
`)

func (c *RedisOrganizerStatsCache) ApplyPurchase(ctx context.Context, organizerID uuid.UUID, quantity int, revenue float64) error {
	return applyPurchaseScript.Run(ctx, c.client,
		[]string{c.statsKey(organizerID)}, quantity, revenue).Err()
}
