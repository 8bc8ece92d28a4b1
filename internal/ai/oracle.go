package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/internal/scoring"
)

var scorePattern = regexp.MustCompile(`\b([1-9]|10)\b`)

const maxLogLength = 200

// ScoreOracle asks a generator to rate a candidate from 1 to 10
type ScoreOracle struct {
	generator Generator
	log       *zap.Logger
}

func NewScoreOracle(generator Generator, log *zap.Logger) *ScoreOracle {
	return &ScoreOracle{generator: generator, log: logger.OrNop(log)}
}

// Score implements scoring.Oracle
func (o *ScoreOracle) Score(ctx context.Context, job scoring.JobSummary, candidate scoring.CandidateSummary) (int, error) {
	if o == nil || o.generator == nil {
		return 0, errors.New("score oracle is not configured")
	}

	prompt, err := buildScorePrompt(job, candidate)
	if err != nil {
		return 0, err
	}

	o.log.Debug("score oracle request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("job_title", job.Title),
	)

	raw, err := o.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return 0, err
	}

	o.log.Debug("score oracle response", zap.String("response_preview", truncate(raw, maxLogLength)))
	return ParseScore(raw)
}

func buildScorePrompt(job scoring.JobSummary, candidate scoring.CandidateSummary) (string, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}

	return fmt.Sprintf(`As a recruiter, analyze the candidate's profile against the job requirements and provide a matching score from 1-10.

Job Requirements:
%s

Candidate Profile:
%s

Scoring Criteria:
- Skills match (40%%)
- Experience relevance (30%%)
- Years of experience (20%%)
- Education fit (10%%)

Respond with JSON only: {"score": <integer from 1 to 10>}`, jobJSON, candidateJSON), nil
}

type scoreReply struct {
	Score float64 `json:"score"`
}

// ParseScore reads a score from a JSON object reply, or from the first integer
// between 1 and 10 in free text
func ParseScore(raw string) (int, error) {
	cleaned := extractJSON(raw)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		var reply scoreReply
		if err := decode(data, &reply); err != nil {
			return 0, fmt.Errorf("decode score reply: %w", err)
		}
		if reply.Score != math.Trunc(reply.Score) {
			return 0, fmt.Errorf("score %v is not an integer", reply.Score)
		}
		return int(reply.Score), nil
	}

	match := scorePattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, fmt.Errorf("no score found in reply %q", truncate(raw, 50))
	}
	return strconv.Atoi(match[1])
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
