// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package redisstore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cooccur/internal/metrics"
	"github.com/tomtom215/cooccur/internal/recommend"
)

// BackendName identifies this store in logs and metrics.
const BackendName = "redis"

const breakerName = "redis-store"

// addEdgeScript adds the value to the node set, bumps its full count and
// writes the new count into the top-K set before trimming it back to
// ARGV[2] entries. Running it as one script keeps an edge atomic.
var addEdgeScript = redis.NewScript(`
redis.call('SADD', KEYS[1], ARGV[1])
redis.call('SADD', KEYS[2], ARGV[3])
local count = redis.call('HINCRBY', KEYS[3], ARGV[1], 1)
redis.call('ZADD', KEYS[4], count, ARGV[1])
redis.call('ZREMRANGEBYRANK', KEYS[4], 0, -(tonumber(ARGV[2]) + 1))
return count
`)

// Store is a recommend.Store backed by Redis.
//
// Key layout under the configured prefix:
//
//	nodes                      SET of object ids
//	node:{id}:values           SET of the object's values
//	recommendations:{value}    LIST of JSON encoded recommendations
//	overall:counts             HASH value -> full frequency count
//	overallRecommendations     ZSET top-K values scored by count
type Store struct {
	client   redis.UniversalClient
	cb       *gobreaker.CircuitBreaker[any]
	logger   zerolog.Logger
	prefix   string
	topLimit int
	scan     int64
	owned    bool
}

var _ recommend.Store = (*Store)(nil)

// New connects to Redis and verifies the connection with PING.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, recommend.NewBackendError(BackendName, "ping", err)
	}

	s, err := NewWithClient(client, cfg, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	s.owned = true

	s.logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Str("prefix", cfg.KeyPrefix).
		Msg("connected to redis")
	return s, nil
}

// NewWithClient wraps an existing client. Close does not close a client
// supplied this way.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWithClient(client redis.UniversalClient, cfg Config, logger zerolog.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	s := &Store{
		client:   client,
		logger:   logger.With().Str("component", "redisstore").Logger(),
		prefix:   cfg.KeyPrefix,
		topLimit: cfg.TopLimit,
		scan:     cfg.ScanCount,
	}

	threshold := cfg.Breaker.FailureThreshold
	s.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), float64(to))
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about Redis health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return s, nil
}

// Name implements recommend.Store.
func (s *Store) Name() string { return BackendName }

// Close implements recommend.Store.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// BreakerState reports the circuit breaker state.
func (s *Store) BreakerState() gobreaker.State {
	return s.cb.State()
}

// GetNode implements recommend.Store.
func (s *Store) GetNode(ctx context.Context, id recommend.Key) (*recommend.Node, bool, error) {
	var (
		exists  *redis.BoolCmd
		members *redis.StringSliceCmd
	)
	err := s.do("get_node", func() error {
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			exists = pipe.SIsMember(ctx, s.nodesKey(), string(id))
			members = pipe.SMembers(ctx, s.nodeKey(id))
			return nil
		})
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if !exists.Val() {
		return nil, false, nil
	}

	values := members.Val()
	slices.Sort(values)
	return &recommend.Node{ID: id, Values: recommend.NewValueSet(recommend.Keys(values...)...)}, true, nil
}

// AddNode implements recommend.Store.
func (s *Store) AddNode(ctx context.Context, node recommend.Node) error {
	values := toArgs(node.Values.Keys())
	return s.do("add_node", func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, s.nodesKey(), string(node.ID))
			pipe.Del(ctx, s.nodeKey(node.ID))
			if len(values) > 0 {
				pipe.SAdd(ctx, s.nodeKey(node.ID), values...)
			}
			return nil
		})
		return err
	})
}

// AddEdge implements recommend.Store.
func (s *Store) AddEdge(ctx context.Context, from, to recommend.Key) error {
	keys := []string{s.nodeKey(from), s.nodesKey(), s.countsKey(), s.topKey()}
	return s.do("add_edge", func() error {
		return addEdgeScript.Run(ctx, s.client, keys, string(to), s.topLimit, string(from)).Err()
	})
}

// GetRecommendations implements recommend.Store.
func (s *Store) GetRecommendations(ctx context.Context, value recommend.Key) ([]recommend.Recommendation, error) {
	var raw []string
	err := s.do("get_recommendations", func() error {
		var err error
		raw, err = s.client.LRange(ctx, s.recsKey(value), 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	recs := make([]recommend.Recommendation, 0, len(raw))
	for _, item := range raw {
		var rec recommend.Recommendation
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, recommend.NewBackendError(BackendName, "get_recommendations", fmt.Errorf("decode recommendation: %w", err))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// UpdateRecommendations implements recommend.Store. The old list is dropped
// and the new one written inside one MULTI/EXEC, so readers never see a
// partially written list.
func (s *Store) UpdateRecommendations(ctx context.Context, value recommend.Key, recs []recommend.Recommendation) error {
	encoded := make([]any, len(recs))
	for i, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode recommendation: %w", err)
		}
		encoded[i] = string(b)
	}

	return s.do("update_recommendations", func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.recsKey(value))
			if len(encoded) > 0 {
				pipe.RPush(ctx, s.recsKey(value), encoded...)
			}
			return nil
		})
		return err
	})
}

// GetTopOverallRecommendations implements recommend.Store.
func (s *Store) GetTopOverallRecommendations(ctx context.Context) ([]recommend.Recommendation, error) {
	var members []redis.Z
	err := s.do("get_top_overall", func() error {
		var err error
		members, err = s.client.ZRevRangeWithScores(ctx, s.topKey(), 0, int64(s.topLimit-1)).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	recs := make([]recommend.Recommendation, 0, len(members))
	for _, z := range members {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		recs = append(recs, recommend.Recommendation{Value: recommend.Key(member), Score: int64(z.Score)})
	}
	recommend.SortRecommendations(recs)
	return recs, nil
}

// ComputeRecommendations implements recommend.Store. Every node set is read,
// which makes this a full scan of the store.
func (s *Store) ComputeRecommendations(ctx context.Context, value recommend.Key) ([]recommend.Recommendation, error) {
	counts := make(map[recommend.Key]int64)
	seen := make(map[string]struct{})
	err := s.scanNodes(ctx, "compute_recommendations", func(batch []string) error {
		ids := batch[:0]
		for _, id := range batch {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		cmds := make([]*redis.StringSliceCmd, len(ids))
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.SMembers(ctx, s.nodeKey(recommend.Key(id)))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, cmd := range cmds {
			members := cmd.Val()
			if !slices.Contains(members, string(value)) {
				continue
			}
			for _, m := range members {
				if m != string(value) {
					counts[recommend.Key(m)]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recommend.CountsToRecommendations(counts), nil
}

// GetAllNodeIDs implements recommend.Store.
func (s *Store) GetAllNodeIDs(ctx context.Context) ([]recommend.Key, error) {
	var ids []recommend.Key
	err := s.scanNodes(ctx, "get_all_node_ids", func(batch []string) error {
		ids = append(ids, recommend.Keys(batch...)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// SSCAN may return an element more than once.
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Count returns the frequency counter for value.
func (s *Store) Count(ctx context.Context, value recommend.Key) (int64, error) {
	var n int64
	err := s.do("count", func() error {
		var err error
		n, err = s.client.HGet(ctx, s.countsKey(), string(value)).Int64()
		if errors.Is(err, redis.Nil) {
			n, err = 0, nil
		}
		return err
	})
	return n, err
}

// scanNodes walks the node index with SSCAN, passing each batch to fn.
func (s *Store) scanNodes(ctx context.Context, op string, fn func(ids []string) error) error {
	var cursor uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var batch []string
		err := s.do(op, func() error {
			var err error
			batch, cursor, err = s.client.SScan(ctx, s.nodesKey(), cursor, "", s.scan).Result()
			if err != nil {
				return err
			}
			if len(batch) == 0 {
				return nil
			}
			return fn(batch)
		})
		if err != nil {
			return err
		}
		if cursor == 0 {
			return nil
		}
	}
}

// do runs fn through the circuit breaker and classifies its error.
func (s *Store) do(op string, fn func() error) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if err == nil {
		metrics.RecordBreakerRequest(breakerName, "success")
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordBreakerRequest(breakerName, "rejected")
	} else {
		metrics.RecordBreakerRequest(breakerName, "failure")
	}
	metrics.RecordStoreError(BackendName, op)
	s.logger.Debug().Err(err).Str("op", op).Msg("redis operation failed")
	return recommend.NewBackendError(BackendName, op, err)
}

func (s *Store) nodesKey() string { return s.prefix + "nodes" }

func (s *Store) nodeKey(id recommend.Key) string {
	return s.prefix + "node:" + string(id) + ":values"
}

func (s *Store) recsKey(value recommend.Key) string {
	return s.prefix + "recommendations:" + string(value)
}

func (s *Store) countsKey() string { return s.prefix + "overall:counts" }

func (s *Store) topKey() string { return s.prefix + "overallRecommendations" }

func toArgs(keys []recommend.Key) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = string(k)
	}
	return args
}
