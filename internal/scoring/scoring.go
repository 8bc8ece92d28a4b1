package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/pkg/models"
)

const (
	MinScore = 1
	MaxScore = 10
)

// JobSummary is the structured job handed to the oracle
type JobSummary struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	ExperienceYears    int      `json:"years_of_experience"`
	Skills             []string `json:"key_skills"`
	RelevantExperience string   `json:"relevant_experience"`
	Location           string   `json:"work_location"`
}

// CandidateSummary is the structured candidate handed to the oracle
type CandidateSummary struct {
	Name               string   `json:"name"`
	ExperienceYears    int      `json:"total_experience"`
	Skills             []string `json:"primary_skills"`
	RelevantExperience string   `json:"relevant_experience"`
	Education          string   `json:"education"`
	Projects           string   `json:"projects"`
}

// Oracle is an external scoring service. Implementations may fail, time out, or return garbage.
type Oracle interface {
	Score(ctx context.Context, job JobSummary, candidate CandidateSummary) (int, error)
}

// Source names the path that produced a score
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

// Trace records how a score was produced. It is for logs and diagnostics only.
type Trace struct {
	Source         Source
	Score          int
	OracleValue    int
	FallbackReason string
	Elapsed        time.Duration
}

var errOutOfRange = errors.New("oracle score out of range")

// Engine scores candidacies against job postings
type Engine struct {
	oracle  Oracle
	timeout time.Duration
	log     *zap.Logger
}

// NewEngine builds an engine. A nil oracle means the fallback is always used.
func NewEngine(oracle Oracle, timeout time.Duration, log *zap.Logger) *Engine {
	return &Engine{
		oracle:  oracle,
		timeout: timeout,
		log:     logger.OrNop(log),
	}
}

// Score returns a fit score in [1,10]. It never fails.
func (e *Engine) Score(ctx context.Context, job *models.JobPosting, candidacy *models.Candidacy) int {
	score, _ := e.ScoreWithTrace(ctx, job, candidacy)
	return score
}

// ScoreWithTrace is Score plus the trace of which path produced the value
func (e *Engine) ScoreWithTrace(ctx context.Context, job *models.JobPosting, candidacy *models.Candidacy) (int, Trace) {
	started := time.Now()
	trace := Trace{Source: SourceFallback}

	if e.oracle == nil {
		trace.FallbackReason = "no oracle configured"
	} else {
		value, err := e.askOracle(ctx, job, candidacy)
		trace.OracleValue = value
		if err == nil {
			trace.Source = SourceOracle
			trace.Score = value
		} else {
			trace.FallbackReason = err.Error()
		}
	}

	if trace.Source == SourceFallback {
		trace.Score = Fallback(job, candidacy)
	}
	trace.Elapsed = time.Since(started)

	e.log.Debug("candidacy scored",
		zap.String("candidacy_id", candidacy.ID),
		zap.String("job_id", job.ID),
		zap.Int("score", trace.Score),
		zap.String("source", string(trace.Source)),
		zap.String("fallback_reason", trace.FallbackReason),
		zap.Duration("elapsed", trace.Elapsed),
	)
	if trace.Source == SourceFallback && e.oracle != nil {
		e.log.Warn("scoring oracle unavailable, used fallback",
			zap.String("candidacy_id", candidacy.ID),
			zap.String("reason", trace.FallbackReason),
		)
	}

	return trace.Score, trace
}

func (e *Engine) askOracle(ctx context.Context, job *models.JobPosting, candidacy *models.Candidacy) (int, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	value, err := e.oracle.Score(ctx, SummarizeJob(job), SummarizeCandidate(candidacy))
	if err != nil {
		return 0, fmt.Errorf("oracle: %w", err)
	}
	if value < MinScore || value > MaxScore {
		return value, fmt.Errorf("%w: %d", errOutOfRange, value)
	}
	return value, nil
}

// SummarizeJob converts a posting into the oracle's input shape
func SummarizeJob(job *models.JobPosting) JobSummary {
	return JobSummary{
		Title:              job.Title,
		Description:        job.Description,
		ExperienceYears:    job.ExperienceYears,
		Skills:             append([]string(nil), job.Skills...),
		RelevantExperience: job.RelevantExperience,
		Location:           job.Location,
	}
}

// SummarizeCandidate converts a candidacy into the oracle's input shape
func SummarizeCandidate(c *models.Candidacy) CandidateSummary {
	return CandidateSummary{
		Name:               c.CandidateName,
		ExperienceYears:    c.ExperienceYears,
		Skills:             append([]string(nil), c.Skills...),
		RelevantExperience: c.RelevantExperience,
		Education:          c.Education,
		Projects:           c.Projects,
	}
}
