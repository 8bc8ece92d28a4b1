package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/pkg/models"
)

const questionCount = 10

var numbered = regexp.MustCompile(`^\s*\d+[.)]\s*`)

// QuestionWriter drafts interview questions, falling back to a fixed set when the
// generator is missing or fails
type QuestionWriter struct {
	generator Generator
	timeout   time.Duration
	log       *zap.Logger
}

func NewQuestionWriter(generator Generator, timeout time.Duration, log *zap.Logger) *QuestionWriter {
	return &QuestionWriter{generator: generator, timeout: timeout, log: logger.OrNop(log)}
}

// Questions returns up to ten interview questions
func (w *QuestionWriter) Questions(ctx context.Context, job *models.JobPosting, c *models.Candidacy) []string {
	if w.generator == nil {
		return FallbackQuestions(job, c)
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	raw, err := w.generator.GenerateContent(ctx, questionPrompt(job, c))
	if err != nil {
		w.log.Warn("question generation failed, using fallback", zap.String("candidacy_id", c.ID), zap.Error(err))
		return FallbackQuestions(job, c)
	}

	questions := ParseQuestions(raw)
	if len(questions) == 0 {
		w.log.Warn("question generation returned nothing usable, using fallback", zap.String("candidacy_id", c.ID))
		return FallbackQuestions(job, c)
	}
	return questions
}

func questionPrompt(job *models.JobPosting, c *models.Candidacy) string {
	return fmt.Sprintf(`Generate %d interview questions for a candidate applying for the position of %s.

Job Requirements:
- Description: %s
- Required Experience: %d years
- Key Skills: %s
- Relevant Experience: %s

Candidate Background:
- Total Experience: %d years
- Skills: %s
- Education: %s

Provide specific, relevant questions that assess:
1. Technical skills (4 questions)
2. Experience relevance (3 questions)
3. Problem-solving abilities (2 questions)
4. Cultural fit (1 question)

Format each question as a numbered list.`,
		questionCount, job.Title, job.Description, job.ExperienceYears, strings.Join(job.Skills, ", "),
		job.RelevantExperience, c.ExperienceYears, strings.Join(c.Skills, ", "), c.Education)
}

// ParseQuestions splits a numbered list into questions without their numbers
func ParseQuestions(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if !numbered.MatchString(line) {
			continue
		}
		q := strings.TrimSpace(numbered.ReplaceAllString(line, ""))
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == questionCount {
			break
		}
	}
	return out
}

// FallbackQuestions is the fixed question set used without a generator
func FallbackQuestions(job *models.JobPosting, c *models.Candidacy) []string {
	firstSkill := "the required technologies"
	field := "your field"
	if len(job.Skills) > 0 {
		firstSkill = job.Skills[0]
		field = job.Skills[0]
	}
	title := job.Title
	if title == "" {
		title = "this"
	}

	return []string{
		fmt.Sprintf("Can you describe your experience with %s?", firstSkill),
		fmt.Sprintf("How do you see your %d years of experience fitting into this %s role?", c.ExperienceYears, title),
		fmt.Sprintf("What specific projects have you worked on that relate to %s?", title),
		"How do you approach problem-solving when faced with technical challenges?",
		fmt.Sprintf("Can you explain a complex technical concept related to %s to a non-technical person?", field),
		"Tell me about a time when you had to learn a new technology quickly.",
		"How do you stay updated with the latest trends in your field?",
		"Describe a challenging project you've worked on and how you overcame the obstacles.",
		"How do you handle working under tight deadlines?",
		"Why are you interested in working for our company in this role?",
	}
}
