package workload

import (
	"strings"
	"unicode"

	"deadline-tracker/internal/model"
)

// CreditsLookup resolves a course label to its credit value.
type CreditsLookup interface {
	CreditsFor(course string) (int, bool)
}

// Credits is an in-memory lookup keyed by normalized course label.
type Credits map[string]int

// NormalizeCourse is the key form used by Credits.
func NormalizeCourse(course string) string {
	return strings.ToLower(strings.TrimSpace(course))
}

func (c Credits) Add(course string, credits int) {
	key := NormalizeCourse(course)
	if key == "" {
		return
	}
	c[key] = credits
}

func (c Credits) CreditsFor(course string) (int, bool) {
	v, ok := c[NormalizeCourse(course)]
	return v, ok
}

// Classification is the derived weight of one deadline.
type Classification struct {
	BaseWeight float64
	Credits    int
	Weight     float64
	Impact     Impact
}

// Classify scores a deadline. Unknown types and courses fall back to policy
// defaults; it never fails.
func Classify(d model.Deadline, credits CreditsLookup, p Policy) Classification {
	base := p.BaseWeight(d.Type)
	cr := p.DefaultCredits
	if credits != nil {
		if v, ok := credits.CreditsFor(d.Course); ok && v >= 1 {
			cr = v
		}
	}
	weight := base * float64(cr)
	return Classification{
		BaseWeight: base,
		Credits:    cr,
		Weight:     weight,
		Impact:     p.ImpactFor(weight),
	}
}

// BaseWeight picks the longest keyword that prefixes a word of the type
// string. Equal lengths resolve to the heavier keyword, then table order.
func (p Policy) BaseWeight(taskType string) float64 {
	words := strings.FieldsFunc(strings.ToLower(taskType), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	best, bestLen := -1, 0
	for i, tw := range p.TypeWeights {
		kw := strings.ToLower(strings.TrimSpace(tw.Keyword))
		if !matchesAnyWord(words, kw) {
			continue
		}
		if best < 0 || len(kw) > bestLen || (len(kw) == bestLen && tw.Weight > p.TypeWeights[best].Weight) {
			best, bestLen = i, len(kw)
		}
	}
	if best < 0 {
		return p.DefaultBaseWeight
	}
	return p.TypeWeights[best].Weight
}

func matchesAnyWord(words []string, keyword string) bool {
	if keyword == "" {
		return false
	}
	for _, w := range words {
		if strings.HasPrefix(w, keyword) {
			return true
		}
	}
	return false
}
