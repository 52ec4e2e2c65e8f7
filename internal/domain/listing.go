package domain

import (
	"fmt"
	"math"
	"time"
)

// Listing is a geotagged item offered for sale by a single seller.
//
// A Listing is never physically removed by the service: Deleted marks it as
// soft-deleted and every read path excludes it (see ListingQuery).
type Listing struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// SellerID is a weak reference to the owning user.
	SellerID string `json:"seller_id"`

	// ─────────────────────────────
	// Offer
	// ─────────────────────────────

	Title            string   `json:"title"`
	Price            float64  `json:"price"`
	Description      string   `json:"description"`
	SellerNo         string   `json:"seller_no"`
	CoverImage       string   `json:"cover_image"`
	AdditionalImages []string `json:"additional_images"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`

	// ─────────────────────────────
	// Place
	// ─────────────────────────────

	LocationDisplayName string   `json:"location_display_name"`
	Country             string   `json:"country"`
	State               string   `json:"state"`
	City                string   `json:"city"`
	Pincode             string   `json:"pincode"`
	Location            GeoPoint `json:"location"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// CreatedAt is stamped once by the lifecycle manager.
	CreatedAt time.Time `json:"created_at"`

	// Deleted marks the listing as soft-deleted.
	Deleted bool `json:"deleted"`

	// Seller is filled at the response boundary and never stored.
	Seller *Seller `json:"seller,omitempty"`
}

// Stored returns a copy of l fit for persistence.
func (l *Listing) Stored() *Listing {
	c := l.Clone()
	c.Seller = nil
	return c
}

// Clone returns a deep copy, so stores never hand out shared slices.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	if l.AdditionalImages != nil {
		c.AdditionalImages = append([]string(nil), l.AdditionalImages...)
	}
	return &c
}

// Fields carries the caller-supplied attributes of a listing for create and
// update. A nil pointer means "not supplied"; update leaves such fields as is.
type Fields struct {
	Title               *string
	Price               *float64
	Description         *string
	SellerNo            *string
	CoverImage          *string
	AdditionalImages    []string
	Category            *string
	Subcategory         *string
	LocationDisplayName *string
	Country             *string
	State               *string
	City                *string
	Pincode             *string
	Location            *GeoPoint
}

// Apply merges the supplied fields into l.
func (f Fields) Apply(l *Listing) {
	setString(&l.Title, f.Title)
	setString(&l.Description, f.Description)
	setString(&l.SellerNo, f.SellerNo)
	setString(&l.CoverImage, f.CoverImage)
	setString(&l.Category, f.Category)
	setString(&l.Subcategory, f.Subcategory)
	setString(&l.LocationDisplayName, f.LocationDisplayName)
	setString(&l.Country, f.Country)
	setString(&l.State, f.State)
	setString(&l.City, f.City)
	setString(&l.Pincode, f.Pincode)
	if f.Price != nil {
		l.Price = *f.Price
	}
	if f.AdditionalImages != nil {
		l.AdditionalImages = append([]string(nil), f.AdditionalImages...)
	}
	if f.Location != nil {
		l.Location = *f.Location
	}
}

// Validate checks the fields against the rules for an update. Create adds the
// required-field checks on top (see ValidateForCreate).
func (f Fields) Validate() error {
	if f.Title != nil && *f.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
	}
	if f.Price != nil && (math.IsNaN(*f.Price) || math.IsInf(*f.Price, 0)) {
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidArgument)
	}
	if f.Location != nil {
		if err := f.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForCreate requires a title, a price and a well-formed location.
func (f Fields) ValidateForCreate() error {
	if f.Location == nil {
		return fmt.Errorf("%w: Location coordinates are required", ErrInvalidArgument)
	}
	if f.Title == nil {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if f.Price == nil {
		return fmt.Errorf("%w: price is required", ErrInvalidArgument)
	}
	return f.Validate()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// RankedListing is a listing annotated with its distance from a reference
// point. Distance is presented in kilometers with two decimals; ordering and
// radius filtering use the exact value.
type RankedListing struct {
	*Listing
	Distance float64 `json:"distance"`

	exact float64
}

// NewRankedListing annotates l with its distance from origin.
func NewRankedListing(l *Listing, origin GeoPoint) RankedListing {
	d := origin.DistanceTo(l.Location)
	return RankedListing{Listing: l, Distance: RoundDistance(d), exact: d}
}

// ExactDistance returns the unrounded distance in kilometers.
func (r RankedListing) ExactDistance() float64 { return r.exact }
