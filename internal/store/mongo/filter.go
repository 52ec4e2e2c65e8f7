package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// notDeleted is the mandatory first stage of every live read.
var notDeleted = bson.E{Key: "deleted", Value: bson.M{"$ne": true}}

// filterFor translates a ListingQuery into a Mongo filter.
func filterFor(q domain.ListingQuery) bson.D {
	c := q.Criteria()
	filter := bson.D{notDeleted}

	if c.OwnerID != "" {
		filter = append(filter, bson.E{Key: "seller_id", Value: c.OwnerID})
	}
	if c.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: c.Category})
	}
	if c.Subcategory != "" {
		filter = append(filter, bson.E{Key: "subcategory", Value: c.Subcategory})
	}
	if c.Text != "" {
		// user text is matched literally, never as a pattern
		pattern := bson.M{"$regex": regexp.QuoteMeta(c.Text), "$options": "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}})
	}
	return filter
}

// nearFilter adds a $near stage on the 2dsphere-indexed location.
// $near sorts nearest first on its own.
func nearFilter(q domain.GeoQuery) bson.D {
	filter := filterFor(q.Filter)
	return append(filter, bson.E{Key: "location", Value: bson.M{
		"$near": bson.M{
			"$geometry":    newPoint(q.Center),
			"$maxDistance": q.RadiusMeters,
		},
	}})
}
