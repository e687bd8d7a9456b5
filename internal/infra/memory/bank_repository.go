package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"traffic-quiz/internal/domain"
)

// BankLoader fetches bank content from a backing store (YAML, Postgres, SQLite, built-in).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks with TTL to avoid repeated loads.
// Every bank handed out is a private copy; engines and callers may mutate it freely.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	logger *zap.Logger

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration, logger *zap.Logger) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(bankID, r.clock()); ok {
		return bank.Clone(), nil
	}

	result, err, shared := r.sf.Do(bankID, func() (interface{}, error) {
		now := r.clock()
		if bank, ok := r.cached(bankID, now); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		bank = bank.Clone()
		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: now.Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		r.logger.Debug("bank cached", zap.String("bank", bankID), zap.Int("questions", len(bank.Questions)))
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	if shared {
		r.logger.Debug("bank load shared", zap.String("bank", bankID))
	}
	return result.(domain.Bank).Clone(), nil
}

// Invalidate drops the cached copy so the next GetBank reloads from the loader.
func (r *BankRepository) Invalidate(bankID string) {
	r.mu.Lock()
	delete(r.cache, bankID)
	r.mu.Unlock()
	r.logger.Debug("bank cache invalidated", zap.String("bank", bankID))
}

func (r *BankRepository) cached(bankID string, now time.Time) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

// StaticBankLoader is a simple loader backed by an in-memory map (built-in banks, tests).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

func (r *BankRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
