package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

const tracerName = "github.com/MrSnakeDoc/geomarket/internal/listing"

// Manager owns listing creation and owner-only mutations.
type Manager struct {
	repo   Repository
	logger logger.Logger
	tracer trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewManager creates a lifecycle manager over repo.
func NewManager(repo Repository, log logger.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: log,
		tracer: otel.Tracer(tracerName),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// Create validates the fields, stamps owner, id and creation time, and
// stores the listing.
func (m *Manager) Create(ctx context.Context, ownerID string, fields domain.Fields) (*domain.Listing, error) {
	ctx, span := m.tracer.Start(ctx, "listing.create",
		trace.WithAttributes(attribute.String("seller.id", ownerID)))
	defer span.End()

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}
	if err := fields.ValidateForCreate(); err != nil {
		return nil, err
	}

	l := &domain.Listing{
		ID:        m.newID(),
		SellerID:  ownerID,
		CreatedAt: m.now(),
	}
	fields.Apply(l)

	id, err := m.repo.Insert(ctx, l)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	created, err := m.repo.FindByID(ctx, id, false)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to read back listing %s: %w", id, err)
	}

	m.logger.Info("listing created",
		logger.String("listing_id", id),
		logger.String("seller_id", ownerID),
		logger.String("location", created.Location.String()))

	return created, nil
}

// Update merges fields into the listing when callerID owns it.
func (m *Manager) Update(ctx context.Context, id, callerID string, fields domain.Fields) (*domain.Listing, error) {
	ctx, span := m.tracer.Start(ctx, "listing.update",
		trace.WithAttributes(
			attribute.String("listing.id", id),
			attribute.String("caller.id", callerID)))
	defer span.End()

	if err := fields.Validate(); err != nil {
		return nil, err
	}

	updated, err := m.repo.Update(ctx, id, callerID, fields)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	m.logger.Info("listing updated",
		logger.String("listing_id", id),
		logger.String("seller_id", callerID))

	return updated, nil
}

// Delete soft-deletes the listing when callerID owns it.
func (m *Manager) Delete(ctx context.Context, id, callerID string) error {
	ctx, span := m.tracer.Start(ctx, "listing.delete",
		trace.WithAttributes(
			attribute.String("listing.id", id),
			attribute.String("caller.id", callerID)))
	defer span.End()

	if err := m.repo.SoftDelete(ctx, id, callerID); err != nil {
		recordError(span, err)
		return err
	}

	m.logger.Info("listing soft-deleted",
		logger.String("listing_id", id),
		logger.String("seller_id", callerID))

	return nil
}

// Get returns a listing that is not soft-deleted.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return m.repo.FindByID(ctx, id, false)
}

// ListAll returns every live listing, newest first.
func (m *Manager) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return m.repo.Find(ctx, domain.NewListingQuery())
}

// ListByOwner returns the live listings of a seller.
func (m *Manager) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return m.repo.FindByOwner(ctx, ownerID)
}

// recordError marks store failures on the span; taxonomy errors are expected
// outcomes and only get recorded as events.
func recordError(span trace.Span, err error) {
	span.RecordError(err)
	if domain.KindOf(err) == domain.KindStoreFailure {
		span.SetStatus(codes.Error, err.Error())
	}
}
