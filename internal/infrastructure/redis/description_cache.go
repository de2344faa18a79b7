package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/logger"
	"github.com/baechuer/france-explorer/internal/metrics"
)

const (
	descKeyPrefix  = "desc:"
	epochKeyPrefix = "desc-epoch:"
)

var errEpochMoved = errors.New("description epoch moved")

// CachedDescriptionStore puts redis in front of the durable description
// store.
//   - Read path: Redis -> DB fallback -> Redis set
//   - Save: DB insert; Redis set only when the insert won, otherwise Redis del
//   - DeleteByTown: DB delete -> epoch bump -> Redis del for every language
//
// Each (town, department) has an epoch counter. A fill remembers the epoch
// it saw before touching the DB and is dropped if an invalidation bumped it
// in the meantime.
type CachedDescriptionStore struct {
	inner location.DescriptionStore
	rdb   *goredis.Client
	ttl   time.Duration
}

var _ location.DescriptionStore = (*CachedDescriptionStore)(nil)

func NewCachedDescriptionStore(inner location.DescriptionStore, client *Client, ttl time.Duration) *CachedDescriptionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedDescriptionStore{inner: inner, rdb: rdbOf(client), ttl: ttl}
}

// keyPart keeps ':' out of the key segments so distinct tuples never share
// a key.
var keyPartEscaper = strings.NewReplacer(`%`, `%25`, `:`, `%3A`)

func keyPart(s string) string { return keyPartEscaper.Replace(s) }

func descKey(k domain.DescriptionKey) string {
	return descKeyPrefix + keyPart(k.TownCode) + ":" + keyPart(k.Department) + ":" + keyPart(k.Language)
}

func epochKey(townCode, department string) string {
	return epochKeyPrefix + keyPart(townCode) + ":" + keyPart(department)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func townPattern(townCode, department string) string {
	return descKeyPrefix + globEscaper.Replace(keyPart(townCode)) + ":" + globEscaper.Replace(keyPart(department)) + ":*"
}

func (c *CachedDescriptionStore) Get(ctx context.Context, key domain.DescriptionKey) (string, error) {
	count := !location.ResolvingRace(ctx)

	var (
		seen     string
		fillable bool
	)
	if c.rdb != nil {
		s, err := c.rdb.Get(ctx, descKey(key)).Result()
		switch {
		case err == nil:
			if count {
				metrics.DescriptionLookupsTotal.WithLabelValues(metrics.SourceRedis).Inc()
			}
			return s, nil
		case err != goredis.Nil:
			// redis down -> DB still answers
			logger.WithCtx(ctx).Warn().Err(err).Msg("description cache read failed")
		default:
			seen, fillable = c.epoch(ctx, key)
		}
	}

	d, err := c.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if count {
		metrics.DescriptionLookupsTotal.WithLabelValues(metrics.SourceDB).Inc()
	}

	if fillable {
		c.fill(ctx, key, seen, d)
	}
	return d, nil
}

func (c *CachedDescriptionStore) Save(ctx context.Context, key domain.DescriptionKey, description string) (bool, error) {
	var (
		seen     string
		fillable bool
	)
	if c.rdb != nil {
		seen, fillable = c.epoch(ctx, key)
	}

	inserted, err := c.inner.Save(ctx, key, description)
	if err != nil {
		return false, err
	}

	switch {
	case c.rdb == nil:
	case inserted:
		if fillable {
			c.fill(ctx, key, seen, description)
		}
	default:
		// someone else's row is authoritative; let the next read fill it
		_ = c.rdb.Del(ctx, descKey(key)).Err()
	}
	return inserted, nil
}

// DeleteByTown returns the number of DB rows removed. The town epoch is
// bumped and the redis keys cleared afterwards; failing either is an error
// because the old text would keep being served until it expires.
func (c *CachedDescriptionStore) DeleteByTown(ctx context.Context, townCode, department string) (int64, error) {
	n, err := c.inner.DeleteByTown(ctx, townCode, department)
	if err != nil {
		return 0, err
	}
	if c.rdb == nil {
		return n, nil
	}

	ek := epochKey(townCode, department)
	if _, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, ek)
		p.Expire(ctx, ek, c.ttl)
		return nil
	}); err != nil {
		return n, fmt.Errorf("bump description epoch: %w", err)
	}

	if err := c.purge(ctx, townPattern(townCode, department)); err != nil {
		return n, fmt.Errorf("purge description cache: %w", err)
	}
	return n, nil
}

// epoch returns the current epoch of key's town ("" when never bumped).
// ok is false when redis could not be read; callers then skip the fill.
func (c *CachedDescriptionStore) epoch(ctx context.Context, key domain.DescriptionKey) (string, bool) {
	v, err := c.rdb.Get(ctx, epochKey(key.TownCode, key.Department)).Result()
	switch {
	case err == goredis.Nil:
		return "", true
	case err != nil:
		logger.WithCtx(ctx).Warn().Err(err).Msg("description epoch read failed")
		return "", false
	}
	return v, true
}

// fill stores value under key unless the town epoch differs from seen.
// WATCH aborts the write when an invalidation lands between check and set.
func (c *CachedDescriptionStore) fill(ctx context.Context, key domain.DescriptionKey, seen, value string) {
	ek := epochKey(key.TownCode, key.Department)

	err := c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, ek).Result()
		if err != nil && err != goredis.Nil {
			return err
		}
		if cur != seen {
			return errEpochMoved
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, descKey(key), value, c.ttl)
			return nil
		})
		return err
	}, ek)

	switch {
	case err == nil, errors.Is(err, errEpochMoved), errors.Is(err, goredis.TxFailedErr):
	default:
		logger.WithCtx(ctx).Warn().Err(err).Msg("description cache fill failed")
	}
}

func (c *CachedDescriptionStore) purge(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
