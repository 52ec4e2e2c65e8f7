package listing

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

const (
	// DefaultSearchRadiusKm applies to keyword search with coordinates.
	DefaultSearchRadiusKm = 50.0

	// DefaultNearbyRadiusMeters applies to nearby listings.
	DefaultNearbyRadiusMeters = 50000.0
)

// ErrMissingCoordinates is returned by ParseNearbyParams when longitude or
// latitude is absent.
var ErrMissingCoordinates = fmt.Errorf("%w: Longitude and latitude are required", domain.ErrInvalidArgument)

var errInvalidCoordinates = fmt.Errorf("%w: Invalid coordinates format", domain.ErrInvalidArgument)

// SearchParams are the inputs of a keyword/category search.
type SearchParams struct {
	Query       string
	Category    string
	Subcategory string

	// Origin enables the radius constraint and distance ordering.
	Origin        *domain.GeoPoint
	MaxDistanceKm float64
}

// NearbyParams are the inputs of a nearby-listings lookup.
type NearbyParams struct {
	Origin            domain.GeoPoint
	MaxDistanceMeters float64
}

// SearchQuery holds the raw query string values of /search-listings.
type SearchQuery struct {
	Query       string
	Latitude    string
	Longitude   string
	MaxDistance string
	Category    string
	Subcategory string
}

// ParseSearchParams turns raw request values into SearchParams. Coordinates
// are optional and a lone latitude or longitude is ignored; maxDistance is in
// kilometers.
func ParseSearchParams(raw SearchQuery) (SearchParams, error) {
	p := SearchParams{
		Query:         strings.TrimSpace(raw.Query),
		Category:      raw.Category,
		Subcategory:   raw.Subcategory,
		MaxDistanceKm: DefaultSearchRadiusKm,
	}
	if p.Query == "" {
		return SearchParams{}, fmt.Errorf("%w: Search query is required", domain.ErrInvalidArgument)
	}

	hasLat := strings.TrimSpace(raw.Latitude) != ""
	hasLon := strings.TrimSpace(raw.Longitude) != ""
	if hasLat && hasLon {
		origin, err := parsePoint(raw.Longitude, raw.Latitude)
		if err != nil {
			return SearchParams{}, err
		}
		p.Origin = &origin
	}

	if strings.TrimSpace(raw.MaxDistance) != "" {
		km, err := domain.ParseCoordinate("maxDistance", raw.MaxDistance)
		if err != nil {
			return SearchParams{}, err
		}
		if km < 0 {
			return SearchParams{}, fmt.Errorf("%w: maxDistance must not be negative", domain.ErrInvalidArgument)
		}
		p.MaxDistanceKm = km
	}

	return p, nil
}

// ParseNearbyParams turns raw request values into NearbyParams;
// maxDistance is in meters.
func ParseNearbyParams(longitude, latitude, maxDistance string) (NearbyParams, error) {
	if strings.TrimSpace(longitude) == "" || strings.TrimSpace(latitude) == "" {
		return NearbyParams{}, ErrMissingCoordinates
	}

	origin, err := parsePoint(longitude, latitude)
	if err != nil {
		return NearbyParams{}, err
	}

	p := NearbyParams{Origin: origin, MaxDistanceMeters: DefaultNearbyRadiusMeters}
	if strings.TrimSpace(maxDistance) != "" {
		m, err := domain.ParseCoordinate("maxDistance", maxDistance)
		if err != nil {
			return NearbyParams{}, err
		}
		if m < 0 {
			return NearbyParams{}, fmt.Errorf("%w: maxDistance must not be negative", domain.ErrInvalidArgument)
		}
		p.MaxDistanceMeters = m
	}
	return p, nil
}

func parsePoint(longitude, latitude string) (domain.GeoPoint, error) {
	lon, err := domain.ParseCoordinate("longitude", longitude)
	if err != nil {
		return domain.GeoPoint{}, errInvalidCoordinates
	}
	lat, err := domain.ParseCoordinate("latitude", latitude)
	if err != nil {
		return domain.GeoPoint{}, errInvalidCoordinates
	}
	p := domain.NewGeoPoint(lon, lat)
	if err := p.Validate(); err != nil {
		return domain.GeoPoint{}, err
	}
	return p, nil
}
