package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"traffic-quiz/internal/domain"
)

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// QuizService turns stored banks into ready-to-play engines. It keeps no run state.
type QuizService struct {
	banks  BankRepository
	logger *zap.Logger
	opts   []Option
}

func NewQuizService(banks BankRepository, logger *zap.Logger, opts ...Option) *QuizService {
	return &QuizService{banks: banks, logger: logger, opts: opts}
}

// NewRun loads bankID and returns a fresh engine for it.
func (s *QuizService) NewRun(ctx context.Context, bankID string) (*Engine, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		s.logger.Warn("load bank failed", zap.String("bank", bankID), zap.Error(err))
		return nil, fmt.Errorf("load bank %q: %w", bankID, err)
	}

	engine, err := NewEngine(bank, s.opts...)
	if err != nil {
		s.logger.Warn("bank rejected", zap.String("bank", bankID), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("run created",
		zap.String("bank", bankID),
		zap.Int("questions", engine.Total()),
		zap.Int("achievements", len(bank.Achievements)),
	)
	return engine, nil
}

// Validate loads bankID and checks it without starting a run.
func (s *QuizService) Validate(ctx context.Context, bankID string) (domain.Bank, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %q: %w", bankID, err)
	}
	if _, err := NewEngine(bank, s.opts...); err != nil {
		return bank, err
	}
	return bank, nil
}
