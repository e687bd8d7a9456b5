package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"traffic-quiz/internal/domain"
)

// BankLoader fetches bank content from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches whole banks in Redis and falls back to a loader on cache miss.
// Banks are stored as JSON: SET quiz:bank:{bankID} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration, logger *zap.Logger) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.fromCache(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		data, err := json.Marshal(bank)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("marshal bank: %w", err)
		}
		// best-effort: a failed write only costs another load later
		if err := r.client.Set(ctx, r.key(bankID), data, r.ttlWithJitter()).Err(); err != nil {
			r.logger.Warn("cache bank failed", zap.String("bank", bankID), zap.Error(err))
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context, bankID string) (domain.Bank, bool) {
	raw, err := r.client.Get(ctx, r.key(bankID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("read cached bank failed", zap.String("bank", bankID), zap.Error(err))
		}
		return domain.Bank{}, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		r.logger.Warn("discarding corrupt cached bank", zap.String("bank", bankID), zap.Error(err))
		return domain.Bank{}, false
	}
	return bank, true
}

// Invalidate drops the cached copy of bankID.
func (r *BankRepository) Invalidate(ctx context.Context, bankID string) error {
	return r.client.Del(ctx, r.key(bankID)).Err()
}

func (r *BankRepository) key(bankID string) string {
	return "quiz:bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
