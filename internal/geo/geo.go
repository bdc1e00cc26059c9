// Package geo provides the Location value type and pure geographic
// aggregation over participant locations. It performs no I/O.
package geo

import (
	"math"

	"github.com/mmynk/meetpoint/internal/apperrors"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Location is an immutable validated coordinate pair with an optional
// reported accuracy in meters (nil when the client did not send one).
type Location struct {
	Latitude  float64
	Longitude float64
	AccuracyM *float64
}

// NewLocation validates the coordinate bounds and builds a Location.
// accuracyM may be nil; a negative accuracy is rejected.
func NewLocation(lat, lon float64, accuracyM *float64) (Location, error) {
	if lat < -90 || lat > 90 {
		return Location{}, apperrors.Ef(apperrors.KindValidation, "latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Location{}, apperrors.Ef(apperrors.KindValidation, "longitude %v out of range [-180, 180]", lon)
	}
	if accuracyM != nil && *accuracyM < 0 {
		return Location{}, apperrors.Ef(apperrors.KindValidation, "accuracy %v must be non-negative", *accuracyM)
	}
	return Location{Latitude: lat, Longitude: lon, AccuracyM: accuracyM}, nil
}

// Center computes the arithmetic mean of latitudes and longitudes
// independently. A single location is returned unchanged. An empty input is a
// validation error: there is nothing to average.
//
// This is deliberately not a spherical centroid or Weber point; the
// approximation is only acceptable at city scale.
func Center(locations []Location) (Location, error) {
	if len(locations) == 0 {
		return Location{}, apperrors.E(apperrors.KindValidation, "cannot compute center of empty location set")
	}
	if len(locations) == 1 {
		return locations[0], nil
	}

	var sumLat, sumLon float64
	for _, l := range locations {
		sumLat += l.Latitude
		sumLon += l.Longitude
	}
	n := float64(len(locations))
	return Location{
		Latitude:  sumLat / n,
		Longitude: sumLon / n,
	}, nil
}

// HaversineKm returns the great-circle distance between a and b in
// kilometers. Symmetric; zero for identical points.
func HaversineKm(a, b Location) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TotalTravelKm sums the haversine distance from each location to the meeting
// point. An empty location set sums to zero; unlike Center, "nobody to sum"
// is a valid result, not an error.
func TotalTravelKm(locations []Location, meetingPoint Location) float64 {
	var total float64
	for _, l := range locations {
		total += HaversineKm(l, meetingPoint)
	}
	return total
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
