package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/ai"
	"github.com/khrees2412/hireflow/internal/lifecycle"
	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/pkg/models"
)

const defaultStoreTimeout = 5 * time.Second

// Scorer computes a fit score in [1,10] and never fails
type Scorer interface {
	Score(ctx context.Context, job *models.JobPosting, candidacy *models.Candidacy) int
}

// QuestionWriter drafts interview questions for a candidacy
type QuestionWriter interface {
	Questions(ctx context.Context, job *models.JobPosting, candidacy *models.Candidacy) []string
}

// Config tunes the orchestrator
type Config struct {
	ShortlistThreshold int
	WillingnessDays    int
	StoreTimeout       time.Duration
}

// Deps are the collaborators of a Service. Store and Scorer are required.
type Deps struct {
	Store     Store
	Scorer    Scorer
	Questions QuestionWriter
	Sink      Sink
	Clock     lifecycle.Clock
	Logger    *zap.Logger
}

// Result is what a command produced. Notifications are in creation order and already committed.
type Result struct {
	Job           *models.JobPosting     `json:"job,omitempty" yaml:"job,omitempty"`
	Candidacy     *models.Candidacy      `json:"candidacy,omitempty" yaml:"candidacy,omitempty"`
	Interview     *models.Interview      `json:"interview,omitempty" yaml:"interview,omitempty"`
	Candidacies   []*models.Candidacy    `json:"candidacies,omitempty" yaml:"candidacies,omitempty"`
	Notifications []*models.Notification `json:"notifications" yaml:"notifications"`
}

// Service exposes the candidacy workflow operations
type Service struct {
	store     Store
	scorer    Scorer
	questions QuestionWriter
	sink      Sink
	machine   *lifecycle.Machine
	cfg       Config
	log       *zap.Logger
}

func NewService(deps Deps, cfg Config) *Service {
	log := logger.OrNop(deps.Logger)
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	sink := deps.Sink
	if sink == nil {
		sink = NewLogSink(log)
	}
	questions := deps.Questions
	if questions == nil {
		questions = ai.NewQuestionWriter(nil, 0, log)
	}
	return &Service{
		store:     deps.Store,
		scorer:    deps.Scorer,
		questions: questions,
		sink:      sink,
		machine: lifecycle.New(lifecycle.Config{
			ShortlistThreshold: cfg.ShortlistThreshold,
			WillingnessDays:    cfg.WillingnessDays,
		}, deps.Clock),
		cfg: cfg,
		log: log,
	}
}

func (s *Service) now() time.Time {
	return s.machine.Now()
}

// update runs fn in a write transaction bounded by the store timeout, then delivers
// the notifications it produced.
func (s *Service) update(ctx context.Context, op string, fn func(ctx context.Context, tx Tx, res *Result) error) (*Result, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	res := &Result{}
	err := s.store.WithinTx(txCtx, func(ctx context.Context, tx Tx) error {
		*res = Result{}
		if err := fn(ctx, tx, res); err != nil {
			return err
		}
		for _, n := range res.Notifications {
			if err := tx.CreateNotification(ctx, n); err != nil {
				return fmt.Errorf("store notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Info("command refused", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	logger.WithFields(s.log, logger.CandidacyFields(res.Candidacy)...).Info("command applied",
		zap.String("op", op),
		zap.Int("notifications", len(res.Notifications)),
	)
	for _, n := range res.Notifications {
		s.sink.Deliver(ctx, n)
	}
	return res, nil
}

func (s *Service) view(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.store.View(ctx, fn)
}

func (s *Service) loadCandidacy(ctx context.Context, tx Tx, id string) (*models.Candidacy, *models.JobPosting, error) {
	c, err := tx.GetCandidacy(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	job, err := tx.GetJob(ctx, c.JobID)
	if err != nil {
		return nil, nil, err
	}
	return c, job, nil
}
