// Package mongo implements the listing repository on MongoDB with a
// 2dsphere index on the listing location.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// CollectionListings is the collection holding listing documents.
const CollectionListings = "listings"

// Store handles MongoDB operations for listings
type Store struct {
	db       *mongo.Database
	listings *mongo.Collection
}

// NewStore creates a new Mongo store over db
func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:       db,
		listings: db.Collection(CollectionListings),
	}
}

// EnsureIndexes creates the geo, seller and creation-time indexes.
// It is idempotent and runs at start-up.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.listings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

// Ping checks the connection, used by readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Insert stores a new listing
func (s *Store) Insert(ctx context.Context, l *domain.Listing) (string, error) {
	if l.ID == "" {
		return "", fmt.Errorf("%w: listing ID is required", domain.ErrInvalidArgument)
	}
	if err := l.Location.Validate(); err != nil {
		return "", err
	}

	if _, err := s.listings.InsertOne(ctx, fromListing(l)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("listing %s already exists", l.ID)
		}
		return "", fmt.Errorf("failed to save listing: %w", err)
	}
	return l.ID, nil
}

// Exists reports whether a listing document exists, deleted or not
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.listings.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check listing: %w", err)
	}
	return n > 0, nil
}

// FindByID retrieves a listing by ID
func (s *Store) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Listing, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	if !includeDeleted {
		filter = append(filter, notDeleted)
	}
	return s.findOne(ctx, filter)
}

// FindByOwner retrieves the live listings of a seller
func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return s.Find(ctx, domain.NewListingQuery().WithOwner(ownerID))
}

// Find retrieves the listings matching q, newest first
func (s *Store) Find(ctx context.Context, q domain.ListingQuery) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.listings.Find(ctx, filterFor(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	return decodeAll(ctx, cur)
}

// GeoQuery retrieves live listings within q.RadiusMeters of q.Center,
// nearest first per the 2dsphere index
func (s *Store) GeoQuery(ctx context.Context, q domain.GeoQuery) ([]*domain.Listing, error) {
	cur, err := s.listings.Find(ctx, nearFilter(q))
	if err != nil {
		return nil, fmt.Errorf("failed to query geo index: %w", err)
	}
	return decodeAll(ctx, cur)
}

// Update applies the supplied fields when ownerID is the seller
func (s *Store) Update(ctx context.Context, id, ownerID string, fields domain.Fields) (*domain.Listing, error) {
	filter := ownedBy(id, ownerID)

	set := setFields(fields)
	if len(set) == 0 {
		l, err := s.findOne(ctx, filter)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.missOrForbidden(ctx, id, "update")
		}
		return l, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err := s.listings.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.missOrForbidden(ctx, id, "update")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return doc.toDomain(), nil
}

// SoftDelete marks the listing deleted when ownerID is the seller
func (s *Store) SoftDelete(ctx context.Context, id, ownerID string) error {
	res, err := s.listings.UpdateOne(ctx, ownedBy(id, ownerID),
		bson.D{{Key: "$set", Value: bson.D{{Key: "deleted", Value: true}}}})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.missOrForbidden(ctx, id, "delete")
	}
	return nil
}

// missOrForbidden tells an absent listing from one owned by someone else
// after a conditional write matched nothing.
func (s *Store) missOrForbidden(ctx context.Context, id, action string) error {
	if _, err := s.FindByID(ctx, id, false); err != nil {
		return err
	}
	return fmt.Errorf("%w: Unauthorized to %s this listing", domain.ErrForbidden, action)
}

func (s *Store) findOne(ctx context.Context, filter bson.D) (*domain.Listing, error) {
	var doc listingDocument
	err := s.listings.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return doc.toDomain(), nil
}

func ownedBy(id, ownerID string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "seller_id", Value: ownerID},
		notDeleted,
	}
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*domain.Listing, error) {
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toDomain())
	}
	return listings, nil
}
