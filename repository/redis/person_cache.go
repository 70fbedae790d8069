package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository"
)

// personCache is a read-through cache of persons by id in front of another PersonRepository.
// Writes go to the inner store first and then drop the cached entries they touched.
// Cache failures are logged and never fail the call.
type personCache struct {
	repository.PersonRepository

	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewPersonCache wraps inner with a Redis cache keyed by person id.
func NewPersonCache(inner repository.PersonRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.PersonRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &personCache{
		PersonRepository: inner,
		client:           client,
		prefix:           "person:",
		ttl:              ttl,
		logger:           logger,
	}
}

func (r *personCache) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	if person, ok := r.get(ctx, id); ok {
		return person, nil
	}
	person, err := r.PersonRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, person)
	return person, nil
}

func (r *personCache) Save(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	saved, err := r.PersonRepository.Save(ctx, person)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, saved.ID)
	return saved, nil
}

func (r *personCache) SaveAll(ctx context.Context, persons []domain.Person) ([]domain.Person, error) {
	saved, err := r.PersonRepository.SaveAll(ctx, persons)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(saved))
	for _, p := range saved {
		ids = append(ids, p.ID)
	}
	r.evict(ctx, ids...)
	return saved, nil
}

func (r *personCache) Delete(ctx context.Context, id string) error {
	if err := r.PersonRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *personCache) get(ctx context.Context, id string) (*domain.Person, bool) {
	result, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			r.logger.Warn("person cache read failed", zap.String("person_id", id), zap.Error(err))
		}
		return nil, false
	}
	var person domain.Person
	if err := json.Unmarshal(result, &person); err != nil {
		r.logger.Warn("person cache entry corrupt", zap.String("person_id", id), zap.Error(err))
		return nil, false
	}
	return &person, true
}

func (r *personCache) set(ctx context.Context, person *domain.Person) {
	payload, err := json.Marshal(person)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(person.ID), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("person cache write failed", zap.String("person_id", person.ID), zap.Error(err))
	}
}

func (r *personCache) evict(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.key(id))
	}
	if err := r.client.Del(context.WithoutCancel(ctx), keys...).Err(); err != nil {
		r.logger.Warn("person cache eviction failed", zap.Strings("person_ids", ids), zap.Error(err))
	}
}

func (r *personCache) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
