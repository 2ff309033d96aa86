package track

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	tests := []struct {
		name      string
		lookup    string
		wantName  string
		wantPit   float64
		wantError bool
	}{
		{name: "known track", lookup: "COTA", wantName: "COTA", wantPit: 21.5},
		{name: "case insensitive", lookup: "cota", wantName: "COTA", wantPit: 21.5},
		{name: "surrounding whitespace", lookup: " Sonoma ", wantName: "Sonoma", wantPit: 18.5},
		{
			name:   "unknown track resolves to default values",
			lookup: "Nordschleife", wantName: "Nordschleife", wantPit: 21.0,
		},
		{name: "empty name", lookup: "", wantError: true},
		{name: "blank name", lookup: "   ", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Get(tt.lookup)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrEmptyTrackName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.InDelta(t, tt.wantPit, got.PitLaneTimeLoss, 1e-9)
		})
	}
}

func TestRegistryNames(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)
	names := reg.Names()
	assert.Len(t, names, 7)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "COTA")
	assert.Contains(t, names, "Road America")
}

func TestRegistryOverlay(t *testing.T) {
	overlay := `
profiles:
  - name: COTA
    pitLaneTimeLoss: 25.0
    tireWearRate: 3.5
    degradationCliffLap: 18
    optimalStintCandidates: [12, 15, 18]
  - name: Test Ring
    pitLaneTimeLoss: 16.0
    tireWearRate: 2.0
    degradationCliffLap: 30
    optimalStintCandidates: [20, 24, 28]
`
	reg, err := New(WithOverlay(strings.NewReader(overlay)))
	require.NoError(t, err)

	// existing profile replaced wholesale
	cota, err := reg.Get("COTA")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, cota.PitLaneTimeLoss, 1e-9)
	assert.Equal(t, [3]int{12, 15, 18}, cota.OptimalStintCandidates)

	// new profile added
	ring, err := reg.Get("test ring")
	require.NoError(t, err)
	assert.Equal(t, "Test Ring", ring.Name)
	assert.InDelta(t, 16.0, ring.PitLaneTimeLoss, 1e-9)
	assert.Len(t, reg.Names(), 8)

	// untouched builtin remains
	sonoma, err := reg.Get("Sonoma")
	require.NoError(t, err)
	assert.InDelta(t, 18.5, sonoma.PitLaneTimeLoss, 1e-9)
}

func TestRegistryOverlayReplacesDefault(t *testing.T) {
	overlay := `
profiles:
  - name: default
    pitLaneTimeLoss: 30.0
    tireWearRate: 2.5
    degradationCliffLap: 22
    optimalStintCandidates: [16, 19, 22]
  - name: ""
    pitLaneTimeLoss: 1.0
`
	reg, err := New(WithOverlay(strings.NewReader(overlay)))
	require.NoError(t, err)

	got, err := reg.Get("somewhere-new")
	require.NoError(t, err)
	assert.Equal(t, "somewhere-new", got.Name)
	assert.InDelta(t, 30.0, got.PitLaneTimeLoss, 1e-9)
}

func TestRegistryBrokenOverlay(t *testing.T) {
	_, err := New(WithOverlay(strings.NewReader("profiles: [not a profile")))
	assert.Error(t, err)
}

func TestRegistryMissingOverlayFile(t *testing.T) {
	_, err := New(WithOverlayFile("/does/not/exist.yaml"))
	assert.Error(t, err)
}
