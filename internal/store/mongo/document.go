package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// listingDocument is the stored shape of a listing. Location is a GeoJSON
// point so the 2dsphere index can cover it.
type listingDocument struct {
	ID                  string        `bson:"_id"`
	SellerID            string        `bson:"seller_id"`
	Title               string        `bson:"title"`
	Price               float64       `bson:"price"`
	Description         string        `bson:"description,omitempty"`
	SellerNo            string        `bson:"seller_no,omitempty"`
	CoverImage          string        `bson:"cover_image,omitempty"`
	AdditionalImages    []string      `bson:"additional_images,omitempty"`
	Category            string        `bson:"category,omitempty"`
	Subcategory         string        `bson:"subcategory,omitempty"`
	LocationDisplayName string        `bson:"location_display_name,omitempty"`
	Country             string        `bson:"country,omitempty"`
	State               string        `bson:"state,omitempty"`
	City                string        `bson:"city,omitempty"`
	Pincode             string        `bson:"pincode,omitempty"`
	Location            pointDocument `bson:"location"`
	CreatedAt           time.Time     `bson:"created_at"`
	Deleted             bool          `bson:"deleted"`
}

type pointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func newPoint(p domain.GeoPoint) pointDocument {
	return pointDocument{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}}
}

func (p pointDocument) toDomain() domain.GeoPoint {
	if len(p.Coordinates) != 2 {
		return domain.GeoPoint{}
	}
	return domain.NewGeoPoint(p.Coordinates[0], p.Coordinates[1])
}

func fromListing(l *domain.Listing) listingDocument {
	return listingDocument{
		ID:                  l.ID,
		SellerID:            l.SellerID,
		Title:               l.Title,
		Price:               l.Price,
		Description:         l.Description,
		SellerNo:            l.SellerNo,
		CoverImage:          l.CoverImage,
		AdditionalImages:    l.AdditionalImages,
		Category:            l.Category,
		Subcategory:         l.Subcategory,
		LocationDisplayName: l.LocationDisplayName,
		Country:             l.Country,
		State:               l.State,
		City:                l.City,
		Pincode:             l.Pincode,
		Location:            newPoint(l.Location),
		CreatedAt:           l.CreatedAt.UTC(),
		Deleted:             l.Deleted,
	}
}

func (d listingDocument) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:                  d.ID,
		SellerID:            d.SellerID,
		Title:               d.Title,
		Price:               d.Price,
		Description:         d.Description,
		SellerNo:            d.SellerNo,
		CoverImage:          d.CoverImage,
		AdditionalImages:    d.AdditionalImages,
		Category:            d.Category,
		Subcategory:         d.Subcategory,
		LocationDisplayName: d.LocationDisplayName,
		Country:             d.Country,
		State:               d.State,
		City:                d.City,
		Pincode:             d.Pincode,
		Location:            d.Location.toDomain(),
		CreatedAt:           d.CreatedAt.UTC(),
		Deleted:             d.Deleted,
	}
}

// setFields renders the supplied fields as a $set document. Identity and
// lifecycle fields are never part of it.
func setFields(f domain.Fields) bson.D {
	set := bson.D{}
	add := func(key string, v interface{}) {
		set = append(set, bson.E{Key: key, Value: v})
	}

	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.Price != nil {
		add("price", *f.Price)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.SellerNo != nil {
		add("seller_no", *f.SellerNo)
	}
	if f.CoverImage != nil {
		add("cover_image", *f.CoverImage)
	}
	if f.AdditionalImages != nil {
		add("additional_images", f.AdditionalImages)
	}
	if f.Category != nil {
		add("category", *f.Category)
	}
	if f.Subcategory != nil {
		add("subcategory", *f.Subcategory)
	}
	if f.LocationDisplayName != nil {
		add("location_display_name", *f.LocationDisplayName)
	}
	if f.Country != nil {
		add("country", *f.Country)
	}
	if f.State != nil {
		add("state", *f.State)
	}
	if f.City != nil {
		add("city", *f.City)
	}
	if f.Pincode != nil {
		add("pincode", *f.Pincode)
	}
	if f.Location != nil {
		add("location", newPoint(*f.Location))
	}
	return set
}
