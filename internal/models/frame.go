package models

type RegionKind string

const (
	RegionHotspot RegionKind = "HOTSPOT"
	RegionInput   RegionKind = "INPUT"
)

// ===== RAW DEFINITIONS =====

// RawHotspot is a clickable rectangle as written in data.json
type RawHotspot struct {
	X     float64 `json:"x" validate:"min=0"`
	Y     float64 `json:"y" validate:"min=0"`
	W     float64 `json:"w" validate:"min=0"`
	H     float64 `json:"h" validate:"min=0"`
	Label string  `json:"label" validate:"max=500"`
}

// RawInput is a free-text rectangle with its expected answer
type RawInput struct {
	X        float64 `json:"x" validate:"min=0"`
	Y        float64 `json:"y" validate:"min=0"`
	W        float64 `json:"w" validate:"min=0"`
	H        float64 `json:"h" validate:"min=0"`
	Label    string  `json:"label" validate:"max=500"`
	Expected string  `json:"expected" validate:"max=1000"`
}

// RawFrame is one entry of the frame definition list
type RawFrame struct {
	Image    string       `json:"image" validate:"required,image_name"`
	Hotspots []RawHotspot `json:"hotspots" validate:"dive"`
	Inputs   []RawInput   `json:"inputs" validate:"dive"`
}

// ===== NORMALIZED MODEL =====

// Box is a rectangle in the coordinate space of the frame's original image.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Region is either a hotspot or an input, discriminated by Kind.
// Expected is only meaningful for RegionInput.
type Region struct {
	ID       string     `json:"id"`
	Kind     RegionKind `json:"type"`
	Box      Box        `json:"box"`
	Label    string     `json:"label"`
	Expected string     `json:"expected,omitempty"`
}

func (r Region) IsHotspot() bool { return r.Kind == RegionHotspot }
func (r Region) IsInput() bool   { return r.Kind == RegionInput }

type Frame struct {
	ID       string   `json:"id"`
	Image    string   `json:"image_file_name"`
	ImageURL string   `json:"image_url"`
	Width    int      `json:"original_width"`
	Height   int      `json:"original_height"`
	Regions  []Region `json:"boxes"`
}

// HasHotspots reports whether a background click on this frame counts as a mistake.
func (f Frame) HasHotspots() bool {
	for _, r := range f.Regions {
		if r.IsHotspot() {
			return true
		}
	}
	return false
}

// Region looks up a region of this frame by id.
func (f Frame) Region(id string) (Region, bool) {
	for _, r := range f.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Clone returns a copy that shares no memory with f.
func (f Frame) Clone() Frame {
	out := f
	out.Regions = append([]Region(nil), f.Regions...)
	return out
}

// WithoutAnswers returns a copy with the expected input text removed, for showing a
// frame before the session has been scored.
func (f Frame) WithoutAnswers() Frame {
	out := f.Clone()
	for i := range out.Regions {
		out.Regions[i].Expected = ""
	}
	return out
}

// Dimensions is the natural pixel size of an image asset
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
