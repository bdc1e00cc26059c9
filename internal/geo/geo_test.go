package geo

import (
	"math"
	"testing"

	"github.com/mmynk/meetpoint/internal/apperrors"
)

func mustLocation(t *testing.T, lat, lon float64) Location {
	t.Helper()
	loc, err := NewLocation(lat, lon, nil)
	if err != nil {
		t.Fatalf("NewLocation(%v, %v) failed: %v", lat, lon, err)
	}
	return loc
}

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name     string
		lat      float64
		lon      float64
		accuracy *float64
		wantErr  bool
	}{
		{name: "valid coordinates", lat: 1.3521, lon: 103.8198},
		{name: "boundary north pole", lat: 90, lon: 0},
		{name: "boundary south pole", lat: -90, lon: 0},
		{name: "boundary antimeridian", lat: 0, lon: -180},
		{name: "latitude too high", lat: 90.0001, lon: 0, wantErr: true},
		{name: "latitude too low", lat: -91, lon: 0, wantErr: true},
		{name: "longitude too high", lat: 0, lon: 180.5, wantErr: true},
		{name: "longitude too low", lat: 0, lon: -181, wantErr: true},
		{name: "valid accuracy", lat: 0, lon: 0, accuracy: ptr(12.5)},
		{name: "negative accuracy", lat: 0, lon: 0, accuracy: ptr(-1.0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lon, tt.accuracy)
			if tt.wantErr && err == nil {
				t.Errorf("NewLocation(%v, %v) succeeded, want validation error", tt.lat, tt.lon)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewLocation(%v, %v) failed: %v", tt.lat, tt.lon, err)
			}
			if tt.wantErr && err != nil && apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("error kind = %v, want KindValidation", apperrors.KindOf(err))
			}
		})
	}
}

func TestCenter(t *testing.T) {
	t.Run("empty input is a validation error", func(t *testing.T) {
		_, err := Center(nil)
		if err == nil {
			t.Fatal("Center(nil) succeeded, want error")
		}
		if apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("error kind = %v, want KindValidation", apperrors.KindOf(err))
		}
	})

	t.Run("single location returned unchanged", func(t *testing.T) {
		loc := mustLocation(t, 1.2903, 103.8520)
		got, err := Center([]Location{loc})
		if err != nil {
			t.Fatalf("Center failed: %v", err)
		}
		if got != loc {
			t.Errorf("Center([l]) = %+v, want %+v", got, loc)
		}
	})

	t.Run("identical locations average to themselves", func(t *testing.T) {
		loc := mustLocation(t, 48.8566, 2.3522)
		got, err := Center([]Location{loc, loc, loc, loc})
		if err != nil {
			t.Fatalf("Center failed: %v", err)
		}
		if math.Abs(got.Latitude-loc.Latitude) > 1e-9 || math.Abs(got.Longitude-loc.Longitude) > 1e-9 {
			t.Errorf("Center = %+v, want %+v", got, loc)
		}
	})

	t.Run("three Singapore locations", func(t *testing.T) {
		locations := []Location{
			mustLocation(t, 1.2903, 103.8520),
			mustLocation(t, 1.2966, 103.7764),
			mustLocation(t, 1.3521, 103.8198),
		}
		got, err := Center(locations)
		if err != nil {
			t.Fatalf("Center failed: %v", err)
		}
		if math.Abs(got.Latitude-1.31300) > 1e-4 {
			t.Errorf("latitude = %v, want 1.31300 within 1e-4", got.Latitude)
		}
		if math.Abs(got.Longitude-103.81607) > 1e-4 {
			t.Errorf("longitude = %v, want 103.81607 within 1e-4", got.Longitude)
		}
	})
}

func TestHaversineKm(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		points := []Location{
			mustLocation(t, 0, 0),
			mustLocation(t, 1.2903, 103.8520),
			mustLocation(t, -33.8688, 151.2093),
			mustLocation(t, 90, 0),
		}
		for _, p := range points {
			if d := HaversineKm(p, p); d != 0 {
				t.Errorf("HaversineKm(%+v, self) = %v, want 0", p, d)
			}
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := mustLocation(t, 1.2903, 103.8520)
		b := mustLocation(t, 35.6762, 139.6503)
		if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); math.Abs(d1-d2) > 1e-9 {
			t.Errorf("HaversineKm not symmetric: %v vs %v", d1, d2)
		}
	})

	t.Run("marina bay to jurong", func(t *testing.T) {
		a := mustLocation(t, 1.2903, 103.8520)
		b := mustLocation(t, 1.2966, 103.7764)
		d := HaversineKm(a, b)
		if d < 7 || d > 10 {
			t.Errorf("HaversineKm = %v km, want between 7 and 10", d)
		}
	})

	t.Run("known long distance", func(t *testing.T) {
		// London to Paris is roughly 344 km.
		a := mustLocation(t, 51.5074, -0.1278)
		b := mustLocation(t, 48.8566, 2.3522)
		d := HaversineKm(a, b)
		if d < 330 || d > 360 {
			t.Errorf("London-Paris = %v km, want roughly 344", d)
		}
	})
}

func TestTotalTravelKm(t *testing.T) {
	meetingPoint := mustLocation(t, 1.3521, 103.8198)

	t.Run("empty set sums to zero", func(t *testing.T) {
		if total := TotalTravelKm(nil, meetingPoint); total != 0 {
			t.Errorf("TotalTravelKm(nil) = %v, want 0", total)
		}
	})

	t.Run("sum matches individual distances", func(t *testing.T) {
		locations := []Location{
			mustLocation(t, 1.2903, 103.8520),
			mustLocation(t, 1.2966, 103.7764),
		}
		want := HaversineKm(locations[0], meetingPoint) + HaversineKm(locations[1], meetingPoint)
		got := TotalTravelKm(locations, meetingPoint)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("TotalTravelKm = %v, want %v", got, want)
		}
	})

	t.Run("all at meeting point sums to zero", func(t *testing.T) {
		locations := []Location{meetingPoint, meetingPoint, meetingPoint}
		if total := TotalTravelKm(locations, meetingPoint); total != 0 {
			t.Errorf("TotalTravelKm = %v, want 0", total)
		}
	})
}

func ptr(f float64) *float64 {
	return &f
}
