package llm

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// parseRankings reads free-form "name:score" lines. Each line is judged on its
// own: lines that do not split into exactly a name and a finite number are
// skipped. At most limit suggestions are returned, in response order.
func parseRankings(content string, limit int) model.Suggestions {
	var out model.Suggestions

	for _, line := range strings.Split(content, "\n") {
		if len(out) >= limit {
			break
		}

		parts := strings.Split(strings.TrimSpace(line), ":")
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}

		out = append(out, model.Suggestion{Name: name, Confidence: score})
	}

	return out
}

// matchLabel validates a single-label reply against labels: an exact match
// first, then a case-insensitive one. The allowed spelling is returned.
func matchLabel(reply string, labels []string) (string, bool) {
	candidate := strings.TrimSpace(reply)
	if candidate == "" {
		return "", false
	}

	for _, label := range labels {
		if label == candidate {
			return label, true
		}
	}
	for _, label := range labels {
		if strings.EqualFold(label, candidate) {
			return label, true
		}
	}
	return "", false
}
