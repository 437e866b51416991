package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/zsiec/smpte/internal/logger"
)

const defaultKeyPrefix = "timecode:generators:"

// createScript stores a new generator and adds it to the active set. When
// the set is at capacity, members whose documents have expired are pruned
// before the limit is enforced.
//
// Returns 1 on success, 0 if the key exists, -1 if the limit is reached.
var createScript = redis.NewScript(`
	local key = KEYS[1]
	local active_key = KEYS[2]
	local data = ARGV[1]
	local ttl = tonumber(ARGV[2])
	local id = ARGV[3]
	local max = tonumber(ARGV[4])
	local prefix = ARGV[5]

	if max > 0 and redis.call('SCARD', active_key) >= max then
		for _, member in ipairs(redis.call('SMEMBERS', active_key)) do
			if redis.call('EXISTS', prefix .. member) == 0 then
				redis.call('SREM', active_key, member)
			end
		end
		if redis.call('SCARD', active_key) >= max then
			return -1
		end
	end

	local ok
	if ttl > 0 then
		ok = redis.call('SET', key, data, 'PX', ttl, 'NX')
	else
		ok = redis.call('SET', key, data, 'NX')
	end
	if not ok then
		return 0
	end
	redis.call('SADD', active_key, id)
	return 1
`)

// mutateScript applies one read-modify-write to a stored generator and
// returns the updated document, or nil if it does not exist.
var mutateScript = redis.NewScript(`
	local key = KEYS[1]
	local op = ARGV[1]
	local value = tonumber(ARGV[2])
	local ttl = tonumber(ARGV[3])
	local now = ARGV[4]

	local data = redis.call('GET', key)
	if not data then
		return false
	end

	local g = cjson.decode(data)
	if op == 'increment' then
		g.counter = (g.counter + value) % 4294967296
	elseif op == 'set' then
		g.counter = value
	elseif op == 'userbits' then
		g.user_bits = value
	else
		return redis.error_reply('unknown op ' .. op)
	end
	g.updated_at = now

	local updated = cjson.encode(g)
	if ttl > 0 then
		redis.call('SET', key, updated, 'PX', ttl)
	else
		redis.call('SET', key, updated)
	end
	return updated
`)

// listScript returns every live document and drops expired IDs from the
// active set.
var listScript = redis.NewScript(`
	local active_key = KEYS[1]
	local prefix = ARGV[1]
	local result = {}
	for _, id in ipairs(redis.call('SMEMBERS', active_key)) do
		local data = redis.call('GET', prefix .. id)
		if data then
			table.insert(result, data)
		else
			redis.call('SREM', active_key, id)
		end
	end
	return result
`)

// RedisStore implements Store with one JSON document per generator.
type RedisStore struct {
	client        redis.UniversalClient
	logger        *logrus.Logger
	prefix        string
	ttl           time.Duration
	maxGenerators int
}

// RedisStoreOptions tunes a RedisStore. Zero values keep generators forever
// and impose no count limit.
type RedisStoreOptions struct {
	KeyPrefix     string
	TTL           time.Duration
	MaxGenerators int
}

// NewRedisStore creates a Redis-backed generator store.
func NewRedisStore(client redis.UniversalClient, log *logrus.Logger, opts RedisStoreOptions) *RedisStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:        client,
		logger:        log,
		prefix:        prefix,
		ttl:           opts.TTL,
		maxGenerators: opts.MaxGenerators,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) activeKey() string {
	return s.prefix + "active"
}

// Create stores a new generator.
func (s *RedisStore) Create(ctx context.Context, g *Generator) error {
	if err := g.validate(); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = NewID()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal generator: %w", err)
	}

	result, err := createScript.Run(ctx, s.client,
		[]string{s.key(g.ID), s.activeKey()},
		data, s.ttl.Milliseconds(), g.ID, s.maxGenerators, s.prefix).Int()
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	switch result {
	case 0:
		return fmt.Errorf("generator %s: %w", g.ID, ErrExists)
	case -1:
		return fmt.Errorf("max %d: %w", s.maxGenerators, ErrLimitReached)
	}

	logger.WithGenerator(s.logger, g.ID).WithFields(logrus.Fields{
		"name":       g.Name,
		"fps":        g.FPS,
		"drop_frame": g.DropFrame,
	}).Info("Generator created")

	return nil
}

// Get retrieves a generator by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Generator, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("generator %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get generator: %w", err)
	}
	return decode(data)
}

// List returns all live generators.
func (s *RedisStore) List(ctx context.Context) ([]*Generator, error) {
	res, err := listScript.Run(ctx, s.client, []string{s.activeKey()}, s.prefix).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to list generators: %w", err)
	}

	gens := make([]*Generator, 0, len(res))
	for _, data := range res {
		g, err := decode([]byte(data))
		if err != nil {
			s.logger.WithError(err).Warn("Skipping undecodable generator")
			continue
		}
		gens = append(gens, g)
	}
	sortByCreation(gens)
	return gens, nil
}

// Increment advances a generator by n counts.
func (s *RedisStore) Increment(ctx context.Context, id string, n uint32) (*Generator, error) {
	return s.mutate(ctx, id, "increment", n)
}

// Set moves a generator to an absolute counter value.
func (s *RedisStore) Set(ctx context.Context, id string, counter uint32) (*Generator, error) {
	return s.mutate(ctx, id, "set", counter)
}

// SetUserBits replaces the opaque user bits of a generator.
func (s *RedisStore) SetUserBits(ctx context.Context, id string, bits uint32) (*Generator, error) {
	return s.mutate(ctx, id, "userbits", bits)
}

func (s *RedisStore) mutate(ctx context.Context, id, op string, value uint32) (*Generator, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	data, err := mutateScript.Run(ctx, s.client, []string{s.key(id)},
		op, value, s.ttl.Milliseconds(), now).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("generator %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to %s generator: %w", op, err)
	}

	g, err := decode([]byte(data))
	if err != nil {
		return nil, err
	}

	logger.WithGenerator(s.logger, id).WithFields(logrus.Fields{
		"op":      op,
		"value":   value,
		"counter": g.Counter,
	}).Debug("Generator updated")

	return g, nil
}

// Delete removes a generator.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete generator: %w", err)
	}
	if err := s.client.SRem(ctx, s.activeKey(), id).Err(); err != nil {
		s.logger.Warnf("Failed to remove generator %s from active set: %v", id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("generator %s: %w", id, ErrNotFound)
	}

	logger.WithGenerator(s.logger, id).Info("Generator deleted")
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func decode(data []byte) (*Generator, error) {
	var g Generator
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generator: %w", err)
	}
	return &g, nil
}

func sortByCreation(gens []*Generator) {
	sort.Slice(gens, func(i, j int) bool {
		if gens[i].CreatedAt.Equal(gens[j].CreatedAt) {
			return gens[i].ID < gens[j].ID
		}
		return gens[i].CreatedAt.Before(gens[j].CreatedAt)
	})
}
