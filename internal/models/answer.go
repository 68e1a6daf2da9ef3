package models

// AnswerRecord holds what the user entered on one frame.
// Absent keys read as "" and false.
type AnswerRecord struct {
	Inputs   map[string]string `json:"inputs"`
	Hotspots map[string]bool   `json:"hotspots_clicked"`
}

func NewAnswerRecord() AnswerRecord {
	return AnswerRecord{
		Inputs:   make(map[string]string),
		Hotspots: make(map[string]bool),
	}
}

func (a AnswerRecord) Input(regionID string) string {
	return a.Inputs[regionID]
}

func (a AnswerRecord) Clicked(regionID string) bool {
	return a.Hotspots[regionID]
}

func (a AnswerRecord) Clone() AnswerRecord {
	out := NewAnswerRecord()
	for k, v := range a.Inputs {
		out.Inputs[k] = v
	}
	for k, v := range a.Hotspots {
		out.Hotspots[k] = v
	}
	return out
}

// AnswerStore maps frame id to its answer record
type AnswerStore map[string]AnswerRecord

// Record returns the record for a frame, or an empty one if the frame is unknown.
func (s AnswerStore) Record(frameID string) AnswerRecord {
	if rec, ok := s[frameID]; ok {
		return rec
	}
	return NewAnswerRecord()
}

func (s AnswerStore) Clone() AnswerStore {
	out := make(AnswerStore, len(s))
	for id, rec := range s {
		out[id] = rec.Clone()
	}
	return out
}

// MistakeRecord is the set of frame ids on which a stray background click happened.
type MistakeRecord map[string]bool

func (m MistakeRecord) Marked(frameID string) bool {
	return m[frameID]
}

func (m MistakeRecord) Clone() MistakeRecord {
	out := make(MistakeRecord, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
