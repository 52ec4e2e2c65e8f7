package seed

// File is the root of a seed fixtures file.
type File struct {
	Listings []ListingEntry `yaml:"listings"`
}

// ListingEntry is one fixture listing. ID is optional; entries without one
// get an ID derived from seller, title and location.
type ListingEntry struct {
	ID               string        `yaml:"id"`
	SellerID         string        `yaml:"seller_id"`
	Title            string        `yaml:"title"`
	Price            *float64      `yaml:"price"`
	Description      string        `yaml:"description"`
	SellerNo         string        `yaml:"seller_no"`
	CoverImage       string        `yaml:"cover_image"`
	AdditionalImages []string      `yaml:"additional_images"`
	Category         string        `yaml:"category"`
	Subcategory      string        `yaml:"subcategory"`
	Country          string        `yaml:"country"`
	State            string        `yaml:"state"`
	City             string        `yaml:"city"`
	Pincode          string        `yaml:"pincode"`
	Location         LocationEntry `yaml:"location"`
}

// LocationEntry is the fixture location. Lat and Lon are pointers so a
// missing coordinate is told apart from zero.
type LocationEntry struct {
	Lat         *float64 `yaml:"lat"`
	Lon         *float64 `yaml:"lon"`
	DisplayName string   `yaml:"display_name"`
}
