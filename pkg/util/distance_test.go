package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters_SamePoint(t *testing.T) {
	d := HaversineMeters(37.5665, 126.9780, 37.5665, 126.9780)
	assert.Equal(t, 0.0, d)
}

func TestHaversineMeters_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is about 111.2 km.
	d := HaversineMeters(0, 0, 0, 1)
	assert.InDelta(t, 111195, d, 100)
}

func TestHaversineMeters_Symmetric(t *testing.T) {
	d1 := HaversineMeters(40.7128, -74.0060, 40.7580, -73.9855)
	d2 := HaversineMeters(40.7580, -73.9855, 40.7128, -74.0060)
	assert.InDelta(t, d1, d2, 1e-9)
	assert.Greater(t, d1, 0.0)
}
