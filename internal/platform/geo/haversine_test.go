package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	center := Point{Lat: 40.0, Lng: -74.0}

	cases := []struct {
		name string
		p    Point
		want float64
	}{
		{"same point", center, 0},
		{"0.05 deg west", Point{Lat: 40.0, Lng: -74.05}, 4.26},
		{"0.2 deg west", Point{Lat: 40.0, Lng: -74.2}, 17.05},
		{"1 deg north", Point{Lat: 41.0, Lng: -74.0}, 111.19},
	}

	for _, tc := range cases {
		got := DistanceKm(center, tc.p)
		if math.Abs(got-tc.want) > 0.05 {
			t.Fatalf("%s: got %.3f km, want ~%.2f km", tc.name, got, tc.want)
		}
	}
}

func TestWithinRadius_Boundary(t *testing.T) {
	center := Point{Lat: 40.0, Lng: -74.0}

	if !WithinRadius(center, 5, Point{Lat: 40.0, Lng: -74.05}) {
		t.Fatalf("expected (40,-74.05) inside 5km")
	}
	if WithinRadius(center, 5, Point{Lat: 40.0, Lng: -74.2}) {
		t.Fatalf("expected (40,-74.2) outside 5km")
	}
	if WithinRadius(center, 0, center) {
		t.Fatalf("zero radius never matches")
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{Lat: -90, Lng: 180}).Valid() {
		t.Fatalf("edges should be valid")
	}
	if (Point{Lat: 91, Lng: 0}).Valid() || (Point{Lat: 0, Lng: -181}).Valid() {
		t.Fatalf("out of range should be invalid")
	}
	if (Point{Lat: math.NaN(), Lng: 0}).Valid() {
		t.Fatalf("NaN should be invalid")
	}
}
