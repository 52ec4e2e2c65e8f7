package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for listings and users
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection, used by readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Insert stores a new listing and indexes it.
// The hash, the GEO entry, the creation index and the seller set are written
// by one script, so a listing is never half-indexed.
func (s *Store) Insert(ctx context.Context, l *domain.Listing) (string, error) {
	if l.ID == "" {
		return "", fmt.Errorf("%w: listing ID is required", domain.ErrInvalidArgument)
	}
	if err := l.Location.Validate(); err != nil {
		return "", err
	}
	if err := checkIndexable(l.Location); err != nil {
		return "", err
	}

	data, err := json.Marshal(l.Stored())
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing: %w", err)
	}

	created, err := insertScript.Run(ctx, s.client,
		[]string{ListingKey(l.ID), KeyListingsGeo, KeyListingsCreated, SellerListingsKey(l.SellerID)},
		string(data), l.SellerID, boolField(l.Deleted),
		l.Location.Lon, l.Location.Lat, l.CreatedAt.UnixMilli(), l.ID,
	).Int()
	if err != nil {
		return "", fmt.Errorf("failed to save listing: %w", err)
	}
	if created == 0 {
		return "", fmt.Errorf("listing %s already exists", l.ID)
	}

	return l.ID, nil
}

// Exists reports whether a listing record exists, deleted or not
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, ListingKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check listing: %w", err)
	}
	return n == 1, nil
}

// FindByID retrieves a listing from Redis by ID
func (s *Store) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Listing, error) {
	vals, err := s.client.HMGet(ctx, ListingKey(id), fieldData, fieldDeleted).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	l, err := decodeListing(vals)
	if err != nil {
		return nil, err
	}
	if l == nil || (l.Deleted && !includeDeleted) {
		return nil, fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
	}
	return l, nil
}

// FindByOwner retrieves the live listings of a seller
func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return s.Find(ctx, domain.NewListingQuery().WithOwner(ownerID))
}

// Find retrieves the listings matching q, newest first
func (s *Store) Find(ctx context.Context, q domain.ListingQuery) ([]*domain.Listing, error) {
	var ids []string
	var err error

	if owner := q.Criteria().OwnerID; owner != "" {
		ids, err = s.client.SMembers(ctx, SellerListingsKey(owner)).Result()
	} else {
		ids, err = s.client.ZRevRange(ctx, KeyListingsCreated, 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing IDs: %w", err)
	}

	listings, err := s.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}

	listings = q.Filter(listings)
	domain.SortNewestFirst(listings)
	return listings, nil
}

// hydrate loads listings by ID in one pipeline, preserving order and
// skipping IDs whose record vanished
func (s *Store) hydrate(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HMGet(ctx, ListingKey(id), fieldData, fieldDeleted)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(ids))
	for _, cmd := range cmds {
		l, err := decodeListing(cmd.Val())
		if err != nil {
			return nil, err
		}
		if l != nil {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// decodeListing builds a listing from HMGET [data, deleted].
// A nil listing and nil error mean the record does not exist.
func decodeListing(vals []interface{}) (*domain.Listing, error) {
	if len(vals) < 2 || vals[0] == nil {
		return nil, nil
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected listing payload type %T", vals[0])
	}

	var l domain.Listing
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	// the hash field is authoritative, the payload is not rewritten on delete
	deleted, _ := vals[1].(string)
	l.Deleted = deleted == "1"
	return &l, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
