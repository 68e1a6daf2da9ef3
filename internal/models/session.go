package models

import "time"

type SessionMode string

const (
	ModeActive    SessionMode = "active"
	ModeReviewing SessionMode = "reviewing"
)

type SessionSource string

const (
	SourceDirectory SessionSource = "dir"
	SourceZip       SessionSource = "zip"
	SourceFrameSet  SessionSource = "frame_set"
)

// SessionSnapshot is what the presentation layer needs to draw the current frame.
type SessionSnapshot struct {
	SessionID           string       `json:"session_id"`
	Mode                SessionMode  `json:"mode"`
	FrameIndex          int          `json:"frame_index"`
	FrameCount          int          `json:"frame_count"`
	IsLastFrame         bool         `json:"is_last_frame"`
	Frame               Frame        `json:"frame"`
	Answers             AnswerRecord `json:"answers"`
	MistakeOnFrame      bool         `json:"mistake_on_frame"`
	JustClickedRegionID string       `json:"just_clicked_region_id,omitempty"`
	MistakeFlash        bool         `json:"mistake_flash"`
	Result              *ScoreResult `json:"result,omitempty"`
	StartedAt           time.Time    `json:"started_at"`
	LastActivityAt      time.Time    `json:"last_activity_at"`
}
