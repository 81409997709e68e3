package util

import (
	"math"
)

// HaversineMeters calculates the great-circle distance between two geographic
// points using the Haversine formula.
// Parameters: lat1, lon1, lat2, lon2 in degrees
// Returns: distance in meters
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000.0 // mean Earth radius in meters

	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// degToRad converts degrees to radians
func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
