package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GateDecision Reserve 的判定結果
type GateDecision int

const (
	GateReserved GateDecision = iota
	GateSoldOut
	GateNotWarmed
)

// AvailabilityGate 活動可售數量的快速失敗閘門。
// 只是建議性的預檢：Postgres 的條件更新才是庫存的權威。
// 閘門未預熱時購買流程直接走資料庫。
type AvailabilityGate interface {
	// WarmUp 開賣時把活動剩餘可售數寫入 Redis
	WarmUp(ctx context.Context, eventID uuid.UUID, available int) error
	// Reserve 原子扣減可售數 (Lua)；不足時不扣減
	Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (GateDecision, error)
	// Release 回補可售數，用於資料庫提交失敗後的回滾
	Release(ctx context.Context, eventID uuid.UUID, quantity int) error
}

type RedisAvailabilityGate struct {
	client *redis.Client
}

func NewRedisAvailabilityGate(client *redis.Client) AvailabilityGate {
	return &RedisAvailabilityGate{
		client: client,
	}
}

func (g *RedisAvailabilityGate) availabilityKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:availability", eventID)
}

func (g *RedisAvailabilityGate) WarmUp(ctx context.Context, eventID uuid.UUID, available int) error {
	return g.client.Set(ctx, g.availabilityKey(eventID), available, 0).Err()
}

var reserveScript = redis.NewScript(`
	local key = KEYS[1]
	local qty = tonumber(ARGV[1])

	local available = redis.call('GET', key)
	if not available then
		return -2
	end
	if tonumber(available) < qty then
		return -1
	end

	redis.call('DECRBY', key, qty)
	return 1
`)

func (g *RedisAvailabilityGate) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (GateDecision, error) {
	code, err := reserveScript.Run(ctx, g.client, []string{g.availabilityKey(eventID)}, quantity).Int64()
	if err != nil {
		return GateNotWarmed, err
	}

	switch code {
	case 1:
		return GateReserved, nil
	case -1:
		return GateSoldOut, nil
	default:
		return GateNotWarmed, nil
	}
}

var releaseScript = redis.NewScript(`
	local key = KEYS[1]
	local qty = tonumber(ARGV[1])

	if redis.call('EXISTS', key) == 0 then
		return 0
	end

	redis.call('INCRBY', key, qty)
	return 1
`)

func (g *RedisAvailabilityGate) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	return releaseScript.Run(ctx, g.client, []string{g.availabilityKey(eventID)}, quantity).Err()
}
