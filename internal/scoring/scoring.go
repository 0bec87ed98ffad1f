// Package scoring turns embedding vectors into the similarity figures shown
// to recruiters.
package scoring

import (
	"errors"
	"fmt"
	"math"
)

const (
	LevelExcellent = "Excellent"
	LevelGood      = "Good"
	LevelRegular   = "Regular"
	LevelLow       = "Low"
)

var (
	ErrEmptyVector    = errors.New("empty vector")
	ErrLengthMismatch = errors.New("vector length mismatch")
)

// CosineSimilarity returns the cosine of the angle between a and b. A zero
// vector on either side scores 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyVector
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Percentage maps a similarity score to [0, 100] rounded to two decimals.
func Percentage(score float64) float64 {
	p := score * 100
	switch {
	case math.IsNaN(p), p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return math.Round(p*100) / 100
}

func Level(percentage float64) string {
	switch {
	case percentage >= 80:
		return LevelExcellent
	case percentage >= 60:
		return LevelGood
	case percentage >= 40:
		return LevelRegular
	default:
		return LevelLow
	}
}

type Similarity struct {
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	// Simulated is set when Score is the placeholder used while the
	// inference service was unavailable.
	Simulated bool `json:"simulated"`
}

func NewSimilarity(score float64, simulated bool) Similarity {
	p := Percentage(score)
	return Similarity{
		Score:      score,
		Percentage: p,
		Level:      Level(p),
		Simulated:  simulated,
	}
}
