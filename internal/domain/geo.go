package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// MetersPerKm converts between the two radius units used by the API.
	MetersPerKm = 1000.0
)

// GeoPoint is a WGS84 position. Wherever coordinates are ordered (GeoJSON,
// store indexes, query parameters) the order is longitude first.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// NewGeoPoint builds a point in (longitude, latitude) order.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Lon: lon, Lat: lat}
}

// Validate rejects NaN, infinities and out-of-range values.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidArgument)
	}
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidArgument)
	}
	return nil
}

// DistanceTo returns the great-circle distance to q in kilometers.
func (p GeoPoint) DistanceTo(q GeoPoint) float64 {
	return Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
}

// String renders the point as "lon,lat".
func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MarshalJSON encodes the point as a GeoJSON Point.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}})
}

// UnmarshalJSON decodes a GeoJSON Point.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var g geoJSONPoint
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	if len(g.Coordinates) != 2 {
		return fmt.Errorf("%w: point needs exactly two coordinates", ErrInvalidArgument)
	}
	p.Lon, p.Lat = g.Coordinates[0], g.Coordinates[1]
	return nil
}

// Haversine computes the great-circle distance in kilometers between
// (lat1, lon1) and (lat2, lon2), all in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(phi1)*math.Cos(phi2)*sinLon*sinLon

	// rounding can push a a hair outside [0,1]
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RoundDistance rounds kilometers to two decimals for presentation.
func RoundDistance(km float64) float64 {
	return math.Round(km*100) / 100
}

// FormatKm prints a kilometer value in its shortest form ("50", "2.5").
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}

// ParseCoordinate parses a decimal coordinate from user input.
// The name is only used in the error message.
func ParseCoordinate(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, name)
	}
	return v, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
