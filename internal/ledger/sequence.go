package ledger

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Sequence hands out blocks of ledger record ids per legal entity.
type Sequence interface {
	// Reserve allocates n consecutive ids for comid and returns the first.
	Reserve(ctx context.Context, comid string, n int) (int64, error)
}

// MaxIDReader reads the current highest id per legal entity.
type MaxIDReader interface {
	LedgerMaxIDs(ctx context.Context) (map[string]int64, error)
}

// =============================================================================
// DATABASE SEQUENCE
// =============================================================================

// DBSequence continues from MAX(slhid) read once from the store. It is only
// safe while a single submitter writes the ledger.
type DBSequence struct {
	reader MaxIDReader

	mu     sync.Mutex
	loaded bool
	max    map[string]int64
}

// NewDBSequence creates a sequence backed by the ledger table.
func NewDBSequence(reader MaxIDReader) *DBSequence {
	return &DBSequence{reader: reader}
}

func (s *DBSequence) Reserve(ctx context.Context, comid string, n int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		max, err := s.reader.LedgerMaxIDs(ctx)
		if err != nil {
			return 0, err
		}
		if max == nil {
			max = map[string]int64{}
		}
		s.max = max
		s.loaded = true
	}

	first := s.max[comid] + 1
	s.max[comid] += int64(n)
	return first, nil
}

// =============================================================================
// REDIS SEQUENCE
// =============================================================================

// RedisSequence allocates ids with INCRBY so concurrent submitters never
// collide. Each counter is seeded once from the ledger's MAX(slhid).
type RedisSequence struct {
	client redis.Cmdable
	prefix string
	seed   MaxIDReader

	mu    sync.Mutex
	seeds map[string]int64
}

// NewRedisSequence creates a Redis-backed sequence.
func NewRedisSequence(client redis.Cmdable, prefix string, seed MaxIDReader) *RedisSequence {
	return &RedisSequence{client: client, prefix: prefix, seed: seed}
}

func (s *RedisSequence) Reserve(ctx context.Context, comid string, n int) (int64, error) {
	key := s.prefix + comid

	seed, err := s.seedFor(ctx, comid)
	if err != nil {
		return 0, err
	}
	if err := s.client.SetNX(ctx, key, strconv.FormatInt(seed, 10), 0).Err(); err != nil {
		return 0, fmt.Errorf("seed sequence %s: %w", key, err)
	}

	last, err := s.client.IncrBy(ctx, key, int64(n)).Result()
	if err != nil {
		return 0, fmt.Errorf("reserve %d ids on %s: %w", n, key, err)
	}
	return last - int64(n) + 1, nil
}

func (s *RedisSequence) seedFor(ctx context.Context, comid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeds == nil {
		max, err := s.seed.LedgerMaxIDs(ctx)
		if err != nil {
			return 0, err
		}
		s.seeds = max
	}
	return s.seeds[comid], nil
}
