package player

import (
	"testing"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestInputMatches(t *testing.T) {
	tests := []struct {
		user, expected string
		want           bool
	}{
		{"Paris", "Paris", true},
		{"  paris ", "PARIS", true},
		{"", "", true},
		{"Pari", "Paris", false},
		{"", "x", false},
		{"p a", "pa", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InputMatches(tt.user, tt.expected), "%q vs %q", tt.user, tt.expected)
	}
}

func TestScore(t *testing.T) {
	frames := threeFrames()

	t.Run("all correct", func(t *testing.T) {
		answers := models.AnswerStore{
			"f1": {Inputs: map[string]string{}, Hotspots: map[string]bool{"h1": true}},
			"f2": {Inputs: map[string]string{"i1": " paris"}, Hotspots: map[string]bool{}},
			"f3": {Inputs: map[string]string{"i2": "42"}, Hotspots: map[string]bool{"h2": true}},
		}
		res := Score(frames, answers, models.MistakeRecord{})
		assert.Equal(t, models.ScoreResult{Scored: 4, Total: 4}, res)
		assert.Equal(t, 100.0, res.Percentage())
	})

	t.Run("mistake voids clicked hotspot", func(t *testing.T) {
		answers := models.AnswerStore{
			"f1": {Inputs: map[string]string{}, Hotspots: map[string]bool{"h1": true}},
		}
		res := Score(frames, answers, models.MistakeRecord{"f1": true})
		assert.Equal(t, 0, res.Scored)
		assert.Equal(t, 4, res.Total)
		assert.Equal(t, 1, res.MistakeFrameCount)
	})

	t.Run("mistake does not void inputs", func(t *testing.T) {
		answers := models.AnswerStore{
			"f3": {Inputs: map[string]string{"i2": "42"}, Hotspots: map[string]bool{"h2": true}},
		}
		res := Score(frames, answers, models.MistakeRecord{"f3": true})
		assert.Equal(t, 1, res.Scored)
	})

	t.Run("empty answers", func(t *testing.T) {
		res := Score(frames, models.AnswerStore{}, nil)
		assert.Equal(t, models.ScoreResult{Total: 4}, res)
	})

	t.Run("no regions", func(t *testing.T) {
		res := Score([]models.Frame{frame("only")}, nil, nil)
		assert.Zero(t, res.Total)
		assert.Zero(t, res.Percentage())
	})
}

func TestReview(t *testing.T) {
	frames := threeFrames()
	answers := models.AnswerStore{
		"f2": {Inputs: map[string]string{"i1": "Rome"}, Hotspots: map[string]bool{}},
		"f3": {Inputs: map[string]string{"i2": "42"}, Hotspots: map[string]bool{"h2": true}},
	}

	rv := Review(frames, answers, models.MistakeRecord{"f3": true})

	assert.Len(t, rv, 3)
	assert.Equal(t, 0, rv[0].Scored)
	assert.False(t, rv[0].Regions[0].Clicked)

	assert.Equal(t, "Rome", rv[1].Regions[0].UserAnswer)
	assert.Equal(t, "Paris", rv[1].Regions[0].Expected)
	assert.False(t, rv[1].Regions[0].Correct)

	assert.True(t, rv[2].Mistake)
	assert.True(t, rv[2].Regions[0].Clicked)
	assert.False(t, rv[2].Regions[0].Correct)
	assert.True(t, rv[2].Regions[1].Correct)
	assert.Equal(t, 1, rv[2].Scored)
	assert.Equal(t, 2, rv[2].Total)
}
