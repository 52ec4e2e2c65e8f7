package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// MapListing converts a fixture entry to a listing stamped with now.
// It applies the same checks as listing creation.
func MapListing(e ListingEntry, now time.Time) (*domain.Listing, error) {
	if e.Location.Lat == nil || e.Location.Lon == nil {
		return nil, fmt.Errorf("%w: Location coordinates are required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.SellerID) == "" {
		return nil, fmt.Errorf("%w: seller_id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if e.Price == nil {
		return nil, fmt.Errorf("%w: price is required", domain.ErrInvalidArgument)
	}

	point := domain.NewGeoPoint(*e.Location.Lon, *e.Location.Lat)
	if err := point.Validate(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = fixtureID(e.SellerID, e.Title, point)
	}

	return &domain.Listing{
		ID:                  id,
		SellerID:            e.SellerID,
		Title:               e.Title,
		Price:               *e.Price,
		Description:         e.Description,
		SellerNo:            e.SellerNo,
		CoverImage:          e.CoverImage,
		AdditionalImages:    e.AdditionalImages,
		Category:            e.Category,
		Subcategory:         e.Subcategory,
		LocationDisplayName: e.Location.DisplayName,
		Country:             e.Country,
		State:               e.State,
		City:                e.City,
		Pincode:             e.Pincode,
		Location:            point,
		CreatedAt:           now,
	}, nil
}

// fixtureID derives a stable ID so re-importing an entry without one is
// still skipped.
func fixtureID(sellerID, title string, p domain.GeoPoint) string {
	key := sellerID + "\x00" + title + "\x00" +
		strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
	hash := sha256.Sum256([]byte(key))
	return "seed-" + hex.EncodeToString(hash[:])[:16]
}
