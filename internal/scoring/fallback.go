package scoring

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/khrees2412/hireflow/pkg/models"
)

const (
	experienceWeight = 4.0
	skillsWeight     = 4.0
	textWeight       = 2.0

	// Candidates beyond 1.5x the required years earn no extra credit.
	maxExperienceRatio = 1.5
)

// Fallback is the deterministic scoring algorithm: experience (max 4), skill overlap (max 4),
// and relevant-experience word overlap (max 2), rounded and clamped to [1,10].
func Fallback(job *models.JobPosting, candidacy *models.Candidacy) int {
	total := ExperienceTerm(job.ExperienceYears, candidacy.ExperienceYears) +
		SkillsTerm(job.Skills, candidacy.Skills) +
		TextTerm(job.RelevantExperience, candidacy.RelevantExperience)

	return Clamp(int(math.Round(total)))
}

// ExperienceTerm awards up to 4 points for years of experience relative to the requirement
func ExperienceTerm(required, actual int) float64 {
	if actual <= 0 {
		return 0
	}
	ratio := float64(actual) / float64(max(required, 1))
	return math.Min(math.Min(ratio, maxExperienceRatio)*experienceWeight, experienceWeight)
}

// SkillsTerm awards up to 4 points for the share of job skills the candidate lists
func SkillsTerm(jobSkills, candidateSkills []string) float64 {
	wanted := NormalizeSet(jobSkills)
	if len(wanted) == 0 {
		return 0
	}
	have := NormalizeSet(candidateSkills)
	return float64(intersect(wanted, have)) / float64(len(wanted)) * skillsWeight
}

// TextTerm awards up to 2 points for the share of job keywords found in the candidate's text
func TextTerm(jobText, candidateText string) float64 {
	wanted := Keywords(jobText)
	if len(wanted) == 0 {
		return 0
	}
	have := Keywords(candidateText)
	return float64(intersect(wanted, have)) / float64(len(wanted)) * textWeight
}

// Clamp bounds a score to [1,10]
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// NormalizeSet lower-cases and trims every entry, dropping blanks and duplicates
func NormalizeSet(items []string) map[string]struct{} {
	lower := cases.Lower(language.Und)
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(lower.String(item))
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

// Keywords splits text on whitespace and keeps lower-cased words longer than 3 characters
func Keywords(text string) map[string]struct{} {
	lower := cases.Lower(language.Und)
	set := map[string]struct{}{}
	for _, word := range strings.Fields(lower.String(text)) {
		if len([]rune(word)) > 3 {
			set[word] = struct{}{}
		}
	}
	return set
}

func intersect(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
