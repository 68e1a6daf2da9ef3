package player

import (
	"strings"

	"github.com/SAP-F-2025/frame-player/internal/models"
)

// InputMatches compares a typed answer with the expected one, ignoring case and
// surrounding whitespace.
func InputMatches(user, expected string) bool {
	return strings.ToLower(strings.TrimSpace(user)) == strings.ToLower(strings.TrimSpace(expected))
}

// regionCorrect grades one region. A mistake on the frame voids every hotspot on it,
// including those clicked before the stray click.
func regionCorrect(r models.Region, rec models.AnswerRecord, frameMistake bool) bool {
	switch r.Kind {
	case models.RegionInput:
		return InputMatches(rec.Input(r.ID), r.Expected)
	case models.RegionHotspot:
		return !frameMistake && rec.Clicked(r.ID)
	default:
		return false
	}
}

// Score walks every region of every frame. It does not modify its inputs.
func Score(frames []models.Frame, answers models.AnswerStore, mistakes models.MistakeRecord) models.ScoreResult {
	var res models.ScoreResult
	for _, f := range frames {
		rec := answers.Record(f.ID)
		marked := mistakes.Marked(f.ID)
		for _, r := range f.Regions {
			res.Total++
			if regionCorrect(r, rec, marked) {
				res.Scored++
			}
		}
	}
	for _, marked := range mistakes {
		if marked {
			res.MistakeFrameCount++
		}
	}
	return res
}

// Review produces the per-region breakdown shown after the last frame.
func Review(frames []models.Frame, answers models.AnswerStore, mistakes models.MistakeRecord) []models.FrameReview {
	out := make([]models.FrameReview, 0, len(frames))
	for i, f := range frames {
		rec := answers.Record(f.ID)
		marked := mistakes.Marked(f.ID)
		fr := models.FrameReview{
			FrameID: f.ID,
			Index:   i,
			Image:   f.Image,
			Mistake: marked,
			Total:   len(f.Regions),
			Regions: make([]models.RegionReview, 0, len(f.Regions)),
		}
		for _, r := range f.Regions {
			rr := models.RegionReview{
				RegionID: r.ID,
				Kind:     r.Kind,
				Label:    r.Label,
				Correct:  regionCorrect(r, rec, marked),
			}
			switch r.Kind {
			case models.RegionInput:
				rr.UserAnswer = rec.Input(r.ID)
				rr.Expected = r.Expected
			case models.RegionHotspot:
				rr.Clicked = rec.Clicked(r.ID)
			}
			if rr.Correct {
				fr.Scored++
			}
			fr.Regions = append(fr.Regions, rr)
		}
		out = append(out, fr)
	}
	return out
}
