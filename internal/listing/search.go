package listing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// Engine combines store geo-queries with in-memory exact-distance refinement.
type Engine struct {
	repo   Repository
	logger logger.Logger
	tracer trace.Tracer
}

// NewEngine creates a search and proximity engine over repo.
func NewEngine(repo Repository, log logger.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// SearchResult holds exactly one of its two lists: Ranked when the search
// had an origin, Listings otherwise.
type SearchResult struct {
	Origin   *domain.GeoPoint
	Listings []*domain.Listing
	Ranked   []domain.RankedListing
}

// Len returns the number of results regardless of shape.
func (r SearchResult) Len() int {
	if r.Origin != nil {
		return len(r.Ranked)
	}
	return len(r.Listings)
}

// Search runs a keyword search narrowed by category, subcategory and, when
// p.Origin is set, by distance from it.
//
// With an origin, results are annotated with their exact distance, held to
// the same exact radius as Nearby and sorted nearest first; without one they
// are sorted newest first.
func (e *Engine) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	ctx, span := e.tracer.Start(ctx, "listing.search",
		trace.WithAttributes(
			attribute.String("search.query", p.Query),
			attribute.String("search.category", p.Category),
			attribute.String("search.subcategory", p.Subcategory),
			attribute.Bool("search.geo", p.Origin != nil)))
	defer span.End()

	if p.Query == "" {
		return SearchResult{}, fmt.Errorf("%w: Search query is required", domain.ErrInvalidArgument)
	}

	filter := domain.NewListingQuery().
		WithText(p.Query).
		WithCategory(p.Category).
		WithSubcategory(p.Subcategory)

	if p.Origin == nil {
		listings, err := e.repo.Find(ctx, filter)
		if err != nil {
			recordError(span, err)
			return SearchResult{}, fmt.Errorf("failed to search listings: %w", err)
		}
		domain.SortNewestFirst(listings)
		span.SetAttributes(attribute.Int("search.results", len(listings)))
		return SearchResult{Listings: listings}, nil
	}

	geo, err := domain.NewGeoQuery(*p.Origin, p.MaxDistanceKm*domain.MetersPerKm, filter)
	if err != nil {
		return SearchResult{}, err
	}

	candidates, err := e.repo.GeoQuery(ctx, geo)
	if err != nil {
		recordError(span, err)
		return SearchResult{}, fmt.Errorf("failed to search listings near %s: %w", p.Origin, err)
	}

	ranked := domain.WithinKm(domain.RankByDistance(candidates, *p.Origin), p.MaxDistanceKm)
	span.SetAttributes(attribute.Int("search.results", len(ranked)))

	e.logger.Debug("geo search completed",
		logger.String("query", p.Query),
		logger.String("origin", p.Origin.String()),
		logger.Float64("max_distance_km", p.MaxDistanceKm),
		logger.Int("results", len(ranked)))

	return SearchResult{Origin: p.Origin, Ranked: ranked}, nil
}

// NearbyResult is the response envelope of a nearby lookup. Message always
// states how many listings were found.
type NearbyResult struct {
	Listings []domain.RankedListing `json:"listings"`
	Message  string                 `json:"message"`
}

// Nearby returns listings within p.MaxDistanceMeters of p.Origin.
//
// The store index only pre-filters: every candidate's exact haversine
// distance is recomputed and candidates beyond the radius are dropped before
// sorting nearest first.
func (e *Engine) Nearby(ctx context.Context, p NearbyParams) (NearbyResult, error) {
	ctx, span := e.tracer.Start(ctx, "listing.nearby",
		trace.WithAttributes(
			attribute.String("nearby.origin", p.Origin.String()),
			attribute.Float64("nearby.max_distance_m", p.MaxDistanceMeters)))
	defer span.End()

	geo, err := domain.NewGeoQuery(p.Origin, p.MaxDistanceMeters, domain.NewListingQuery())
	if err != nil {
		return NearbyResult{}, err
	}

	candidates, err := e.repo.GeoQuery(ctx, geo)
	if err != nil {
		recordError(span, err)
		return NearbyResult{}, fmt.Errorf("failed to query listings near %s: %w", p.Origin, err)
	}

	maxKm := geo.RadiusKm()
	ranked := domain.WithinKm(domain.RankByDistance(candidates, p.Origin), maxKm)

	if dropped := len(candidates) - len(ranked); dropped > 0 {
		e.logger.Debug("dropped candidates outside exact radius",
			logger.Int("dropped", dropped),
			logger.Float64("max_distance_km", maxKm))
	}
	span.SetAttributes(
		attribute.Int("nearby.candidates", len(candidates)),
		attribute.Int("nearby.results", len(ranked)))

	return NearbyResult{Listings: ranked, Message: NearbyMessage(len(ranked), maxKm)}, nil
}

// NearbyMessage renders the count-bearing message of a nearby lookup.
func NearbyMessage(found int, maxKm float64) string {
	if found == 0 {
		return fmt.Sprintf("No listings found within %skm of your location", domain.FormatKm(maxKm))
	}
	return fmt.Sprintf("Found %d listings within %skm", found, domain.FormatKm(maxKm))
}

// NearbyRejected builds the soft-failure envelope used when the request
// could not be validated.
func NearbyRejected(err error) NearbyResult {
	return NearbyResult{Listings: []domain.RankedListing{}, Message: domain.Message(err)}
}
