package scoring

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khrees2412/hireflow/pkg/models"
)

type stubOracle struct {
	value int
	err   error
	delay time.Duration
	calls int
}

func (s *stubOracle) Score(ctx context.Context, _ JobSummary, _ CandidateSummary) (int, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return s.value, s.err
}

func scenarioA() (*models.JobPosting, *models.Candidacy) {
	job := &models.JobPosting{
		ID:              "job-1",
		ExperienceYears: 3,
		Skills:          []string{"python", "react", "node"},
	}
	candidacy := &models.Candidacy{
		ID:              "cand-1",
		ExperienceYears: 4,
		Skills:          []string{"Python ", "react"},
	}
	return job, candidacy
}

func TestFallbackScenarioA(t *testing.T) {
	job, candidacy := scenarioA()

	if got := Fallback(job, candidacy); got != 7 {
		t.Fatalf("expected score 7, got %d", got)
	}
}

func TestFallbackTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "experience ratio", got: ExperienceTerm(3, 4), want: 4},
		{name: "experience capped", got: ExperienceTerm(2, 10), want: 4},
		{name: "experience half", got: ExperienceTerm(4, 2), want: 2},
		{name: "experience zero requirement", got: ExperienceTerm(0, 1), want: 4},
		{name: "no experience", got: ExperienceTerm(3, 0), want: 0},
		{name: "skills two of three", got: SkillsTerm([]string{"python", "react", "node"}, []string{"react", "PYTHON"}), want: 8.0 / 3},
		{name: "job lists no skills", got: SkillsTerm(nil, []string{"go"}), want: 0},
		{name: "duplicate job skills", got: SkillsTerm([]string{"Go", " go", "sql"}, []string{"go"}), want: 2},
		{name: "text overlap", got: TextTerm("building payment systems", "I built payment systems in Go"), want: 4.0 / 3},
		{name: "short words ignored", got: TextTerm("go and sql", "go and sql"), want: 0},
		{name: "empty job text", got: TextTerm("", "anything"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Fatalf("expected %.4f, got %.4f", tt.want, tt.got)
			}
		})
	}
}

// Sums landing exactly on .5 round up, so 6.5 scores 7 and 2.5 scores 3
func TestFallbackRoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	job := &models.JobPosting{
		ExperienceYears:    4,
		Skills:             []string{"go", "sql"},
		RelevantExperience: "building payment systems reliably",
	}

	tests := []struct {
		name      string
		candidacy *models.Candidacy
		sum       float64
		want      int
	}{
		{
			name:      "six and a half",
			candidacy: &models.Candidacy{ExperienceYears: 4, Skills: []string{"go"}, RelevantExperience: "payment"},
			sum:       6.5,
			want:      7,
		},
		{
			name:      "four and a half",
			candidacy: &models.Candidacy{ExperienceYears: 2, Skills: []string{"sql"}, RelevantExperience: "payment"},
			sum:       4.5,
			want:      5,
		},
		{
			name:      "two and a half",
			candidacy: &models.Candidacy{ExperienceYears: 2, RelevantExperience: "payment"},
			sum:       2.5,
			want:      3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sum := ExperienceTerm(job.ExperienceYears, tt.candidacy.ExperienceYears) +
				SkillsTerm(job.Skills, tt.candidacy.Skills) +
				TextTerm(job.RelevantExperience, tt.candidacy.RelevantExperience)
			if sum != tt.sum {
				t.Fatalf("expected sum %.2f, got %.4f", tt.sum, sum)
			}
			if got := Fallback(job, tt.candidacy); got != tt.want {
				t.Fatalf("expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFallbackRangeAndIdempotence(t *testing.T) {
	t.Parallel()

	jobs := []*models.JobPosting{
		{ExperienceYears: 0},
		{ExperienceYears: 10, Skills: []string{"go", "sql"}, RelevantExperience: "distributed systems design"},
		{ExperienceYears: 1, Skills: []string{"go"}, RelevantExperience: "backend services"},
	}
	candidacies := []*models.Candidacy{
		{},
		{ExperienceYears: 20, Skills: []string{"go", "sql"}, RelevantExperience: "distributed systems design"},
		{ExperienceYears: 1, Skills: []string{"rust"}},
	}

	for _, job := range jobs {
		for _, c := range candidacies {
			first := Fallback(job, c)
			second := Fallback(job, c)
			if first != second {
				t.Fatalf("fallback not idempotent: %d then %d", first, second)
			}
			if first < MinScore || first > MaxScore {
				t.Fatalf("fallback out of range: %d", first)
			}
		}
	}

	if got := Fallback(jobs[1], candidacies[1]); got != 10 {
		t.Fatalf("expected perfect match to score 10, got %d", got)
	}
	if got := Fallback(jobs[1], candidacies[0]); got != 1 {
		t.Fatalf("expected empty candidacy to clamp to 1, got %d", got)
	}
}

func TestEngineUsesOracle(t *testing.T) {
	job, candidacy := scenarioA()
	oracle := &stubOracle{value: 9}
	engine := NewEngine(oracle, time.Second, nil)

	score, trace := engine.ScoreWithTrace(context.Background(), job, candidacy)
	if score != 9 {
		t.Fatalf("expected oracle score 9, got %d", score)
	}
	if trace.Source != SourceOracle {
		t.Fatalf("expected oracle source, got %s", trace.Source)
	}
	if oracle.calls != 1 {
		t.Fatalf("expected one oracle call, got %d", oracle.calls)
	}
}

func TestEngineFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		oracle Oracle
	}{
		{name: "no oracle", oracle: nil},
		{name: "oracle error", oracle: &stubOracle{err: errors.New("boom")}},
		{name: "out of range high", oracle: &stubOracle{value: 11}},
		{name: "out of range low", oracle: &stubOracle{value: 0}},
		{name: "timeout", oracle: &stubOracle{value: 9, delay: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, candidacy := scenarioA()
			engine := NewEngine(tt.oracle, 20*time.Millisecond, nil)

			score, trace := engine.ScoreWithTrace(context.Background(), job, candidacy)
			if score != 7 {
				t.Fatalf("expected fallback score 7, got %d", score)
			}
			if trace.Source != SourceFallback || trace.FallbackReason == "" {
				t.Fatalf("expected fallback trace with reason, got %+v", trace)
			}
		})
	}
}

func TestEngineLogsFallback(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	job, candidacy := scenarioA()
	engine := NewEngine(&stubOracle{err: errors.New("unavailable")}, time.Second, zap.New(core))

	if got := engine.Score(context.Background(), job, candidacy); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if observed.FilterMessage("scoring oracle unavailable, used fallback").Len() != 1 {
		t.Fatalf("expected fallback warning, got %v", observed.All())
	}
}
