package models

type ScoreResult struct {
	Scored            int `json:"score"`
	Total             int `json:"total_possible"`
	MistakeFrameCount int `json:"mistake_frames_count"`
}

// Percentage returns Scored/Total in the 0-100 range, 0 for an empty assessment.
func (r ScoreResult) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Scored) * 100 / float64(r.Total)
}

// RegionReview is the per-region outcome shown on the review screen
type RegionReview struct {
	RegionID   string     `json:"region_id"`
	Kind       RegionKind `json:"type"`
	Label      string     `json:"label"`
	UserAnswer string     `json:"user_answer,omitempty"`
	Expected   string     `json:"expected,omitempty"`
	Clicked    bool       `json:"clicked,omitempty"`
	Correct    bool       `json:"correct"`
}

type FrameReview struct {
	FrameID string         `json:"frame_id"`
	Index   int            `json:"index"`
	Image   string         `json:"image"`
	Mistake bool           `json:"mistake"`
	Scored  int            `json:"scored"`
	Total   int            `json:"total"`
	Regions []RegionReview `json:"regions"`
}
