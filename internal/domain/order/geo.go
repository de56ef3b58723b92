package order

import "math"

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two points
// using the spherical law of cosines.
func Distance(from, to Point) float64 {
	if from == to {
		return 0
	}

	lat1 := radians(from.Latitude)
	lat2 := radians(to.Latitude)
	deltaLon := radians(to.Longitude) - radians(from.Longitude)

	cosine := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(deltaLon)

	// rounding can push the argument just outside acos' domain
	return math.Acos(math.Max(-1, math.Min(1, cosine))) * EarthRadiusKm
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
