package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// number accepts a JSON number or a numeric string, as browser forms send
// both.
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %q", raw)
	}
	n.value, n.set = v, true
	return nil
}

type locationRequest struct {
	Lat         number `json:"lat"`
	Lon         number `json:"lon"`
	DisplayName string `json:"display_name"`
}

// listingRequest is the create/update body. Field names follow the web
// client.
type listingRequest struct {
	Title                *string          `json:"title"`
	Price                *number          `json:"price"`
	Description          *string          `json:"description"`
	PhoneNumber          *string          `json:"phoneNumber"`
	CoverImageName       *string          `json:"coverImageName"`
	AdditionalImageNames []string         `json:"additionalImageNames"`
	Category             *string          `json:"category"`
	Subcategory          *string          `json:"subcategory"`
	Location             *locationRequest `json:"location"`
}

// fields converts the body into domain fields. A location object must carry
// both coordinates.
func (req listingRequest) fields() (domain.Fields, error) {
	f := domain.Fields{
		Title:            req.Title,
		Description:      req.Description,
		SellerNo:         req.PhoneNumber,
		CoverImage:       req.CoverImageName,
		AdditionalImages: req.AdditionalImageNames,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
	}
	if req.Price != nil && req.Price.set {
		price := req.Price.value
		f.Price = &price
	}

	if req.Location != nil {
		if !req.Location.Lat.set || !req.Location.Lon.set {
			return domain.Fields{}, fmt.Errorf("%w: Location coordinates are required", domain.ErrInvalidArgument)
		}
		p := domain.NewGeoPoint(req.Location.Lon.value, req.Location.Lat.value)
		f.Location = &p
		if req.Location.DisplayName != "" {
			name := req.Location.DisplayName
			f.LocationDisplayName = &name
		}
	}
	return f, nil
}
