package utils

import (
	"math"
	"sort"

	"eldato-web/models"
)

const (
	// DefaultSearchRadiusKm applies when a proximity search gives no radius
	DefaultSearchRadiusKm = 10.0

	// MaxSearchRadiusKm caps the radius of a proximity search
	MaxSearchRadiusKm = 50.0
)

// Location represents a geographical coordinate
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineDistance calculates the distance between two points on Earth using the Haversine formula
// Returns distance in kilometers
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// IsLocationValid checks if the provided coordinates are valid
func IsLocationValid(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// NormalizeRadius clamps a requested radius to (0, MaxSearchRadiusKm], using the default when unset
func NormalizeRadius(radius float64) float64 {
	switch {
	case radius <= 0:
		return DefaultSearchRadiusKm
	case radius > MaxSearchRadiusKm:
		return MaxSearchRadiusKm
	}
	return radius
}

// NearbyServices keeps the services located within radius km of origin, closest first.
// Services without coordinates are left out.
func NearbyServices(services []models.Service, origin Location, radius float64) []models.ServiceMatch {
	radius = NormalizeRadius(radius)
	out := []models.ServiceMatch{}
	for _, s := range services {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		d := HaversineDistance(origin.Latitude, origin.Longitude, *s.Latitude, *s.Longitude)
		if d <= radius {
			d = math.Round(d*100) / 100
			out = append(out, models.ServiceMatch{Service: s, DistanceKm: &d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].DistanceKm < *out[j].DistanceKm })
	return out
}
