package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis GEO measures on a sphere of radius 6372797.560856 m, slightly larger
// than the haversine radius, so its distances run high. The query radius is
// widened by the ratio plus a meter of geohash slack to keep the index a
// superset of the exact match set.
const (
	redisEarthRadiusMeters = 6372797.560856
	geoRadiusSlackMeters   = 1.0
)

// Script results shared by updateScript and softDeleteScript.
const (
	scriptNotFound  = 0
	scriptForbidden = -1
	scriptOK        = 1
	scriptConflict  = -2
)

const maxUpdateAttempts = 3

// maxGeoLatitude is the Web Mercator limit the GEO commands accept.
const maxGeoLatitude = 85.05112878

// checkIndexable rejects points the GEO index cannot hold.
func checkIndexable(p domain.GeoPoint) error {
	if p.Lat > maxGeoLatitude || p.Lat < -maxGeoLatitude {
		return fmt.Errorf("%w: latitude must be within [-%v, %v] for the geo index",
			domain.ErrInvalidArgument, maxGeoLatitude, maxGeoLatitude)
	}
	return nil
}

// insertScript writes the listing hash and its live indexes when the ID is
// free. The GEO entry goes first so a rejected point leaves nothing behind.
//
// KEYS[1] listing hash, KEYS[2] geo set, KEYS[3] created index, KEYS[4] seller set
// ARGV[1] payload, ARGV[2] seller, ARGV[3] deleted flag, ARGV[4] lon,
// ARGV[5] lat, ARGV[6] created (ms), ARGV[7] listing ID
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
if ARGV[3] == "0" then
	redis.call("GEOADD", KEYS[2], ARGV[4], ARGV[5], ARGV[7])
	redis.call("ZADD", KEYS[3], ARGV[6], ARGV[7])
	redis.call("SADD", KEYS[4], ARGV[7])
end
redis.call("HSET", KEYS[1], "data", ARGV[1], "seller", ARGV[2], "deleted", ARGV[3])
return 1
`)

// updateScript replaces the listing payload when the caller is the seller
// and the payload is still the one the merge started from.
//
// KEYS[1] listing hash, KEYS[2] geo set
// ARGV[1] owner, ARGV[2] previous payload, ARGV[3] new payload,
// ARGV[4] lon, ARGV[5] lat, ARGV[6] listing ID
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
if redis.call("HGET", KEYS[1], "deleted") == "1" then
	return 0
end
if redis.call("HGET", KEYS[1], "seller") ~= ARGV[1] then
	return -1
end
if redis.call("HGET", KEYS[1], "data") ~= ARGV[2] then
	return -2
end
redis.call("HSET", KEYS[1], "data", ARGV[3])
redis.call("GEOADD", KEYS[2], ARGV[4], ARGV[5], ARGV[6])
return 1
`)

// softDeleteScript flags the listing as deleted when the caller is the seller
// and drops it from every live index. The hash itself is kept.
//
// KEYS[1] listing hash, KEYS[2] geo set, KEYS[3] created index, KEYS[4] seller set
// ARGV[1] owner, ARGV[2] listing ID
var softDeleteScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
if redis.call("HGET", KEYS[1], "deleted") == "1" then
	return 0
end
if redis.call("HGET", KEYS[1], "seller") ~= ARGV[1] then
	return -1
end
redis.call("HSET", KEYS[1], "deleted", "1")
redis.call("ZREM", KEYS[2], ARGV[2])
redis.call("ZREM", KEYS[3], ARGV[2])
redis.call("SREM", KEYS[4], ARGV[2])
return 1
`)

// GeoQuery returns live listings around q.Center ordered nearest first by
// the Redis GEO index, narrowed by q.Filter.
func (s *Store) GeoQuery(ctx context.Context, q domain.GeoQuery) ([]*domain.Listing, error) {
	if err := checkIndexable(q.Center); err != nil {
		return nil, err
	}
	radius := q.RadiusMeters*(redisEarthRadiusMeters/(domain.EarthRadiusKm*domain.MetersPerKm)) + geoRadiusSlackMeters

	locs, err := s.client.GeoRadius(ctx, KeyListingsGeo, q.Center.Lon, q.Center.Lat, &redis.GeoRadiusQuery{
		Radius: radius,
		Unit:   "m",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query geo index: %w", err)
	}

	ids := make([]string, len(locs))
	for i, loc := range locs {
		ids[i] = loc.Name
	}

	listings, err := s.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}
	return q.Filter.Filter(listings), nil
}

// Update merges fields into the listing when ownerID is its seller.
// ID, seller and creation time are never taken from fields.
func (s *Store) Update(ctx context.Context, id, ownerID string, fields domain.Fields) (*domain.Listing, error) {
	if fields.Location != nil {
		if err := checkIndexable(*fields.Location); err != nil {
			return nil, err
		}
	}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		vals, err := s.client.HMGet(ctx, ListingKey(id), fieldData, fieldDeleted).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get listing: %w", err)
		}
		current, err := decodeListing(vals)
		if err != nil {
			return nil, err
		}
		if current == nil || current.Deleted {
			return nil, fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
		}
		previous, _ := vals[0].(string)

		next := current.Clone()
		fields.Apply(next)
		next.ID, next.SellerID, next.CreatedAt = current.ID, current.SellerID, current.CreatedAt

		data, err := json.Marshal(next.Stored())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal listing: %w", err)
		}

		res, err := updateScript.Run(ctx, s.client,
			[]string{ListingKey(id), KeyListingsGeo},
			ownerID, previous, string(data), next.Location.Lon, next.Location.Lat, id,
		).Int()
		if err != nil {
			return nil, fmt.Errorf("failed to update listing: %w", err)
		}

		switch res {
		case scriptOK:
			return next, nil
		case scriptConflict:
			continue
		default:
			return nil, scriptError(res, "update")
		}
	}
	return nil, fmt.Errorf("failed to update listing %s: concurrent modification", id)
}

// SoftDelete marks the listing deleted when ownerID is its seller
func (s *Store) SoftDelete(ctx context.Context, id, ownerID string) error {
	res, err := softDeleteScript.Run(ctx, s.client,
		[]string{ListingKey(id), KeyListingsGeo, KeyListingsCreated, SellerListingsKey(ownerID)},
		ownerID, id,
	).Int()
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if res != scriptOK {
		return scriptError(res, "delete")
	}
	return nil
}

func scriptError(res int, action string) error {
	switch res {
	case scriptNotFound:
		return fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
	case scriptForbidden:
		return fmt.Errorf("%w: Unauthorized to %s this listing", domain.ErrForbidden, action)
	default:
		return errors.New("unexpected script result")
	}
}
