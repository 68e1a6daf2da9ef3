package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameHasHotspots(t *testing.T) {
	inputOnly := Frame{Regions: []Region{{ID: "i1", Kind: RegionInput}}}
	mixed := Frame{Regions: []Region{{ID: "i1", Kind: RegionInput}, {ID: "h1", Kind: RegionHotspot}}}

	assert.False(t, inputOnly.HasHotspots())
	assert.True(t, mixed.HasHotspots())
	assert.True(t, mixed.Regions[1].IsHotspot())
	assert.True(t, mixed.Regions[0].IsInput())
	assert.False(t, mixed.Regions[0].IsHotspot())
}

func TestFrameWithoutAnswers(t *testing.T) {
	f := Frame{ID: "f1", Regions: []Region{
		{ID: "h1", Kind: RegionHotspot, Label: "door"},
		{ID: "i1", Kind: RegionInput, Label: "capital", Expected: "Paris"},
	}}

	hidden := f.WithoutAnswers()

	assert.Empty(t, hidden.Regions[1].Expected)
	assert.Equal(t, "capital", hidden.Regions[1].Label)
	assert.Equal(t, "Paris", f.Regions[1].Expected)
}
