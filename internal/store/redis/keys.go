package redis

const (
	// KeyPrefixListing is the prefix for listing hashes
	KeyPrefixListing = "geomarket:listing:"
	// KeyPrefixSellerListings is the prefix for per-seller sets of live listing IDs
	KeyPrefixSellerListings = "geomarket:listings:seller:"
	// KeyListingsGeo is the GEO set of live listing IDs keyed on (lon, lat)
	KeyListingsGeo = "geomarket:listings:geo"
	// KeyListingsCreated is the sorted set of live listing IDs scored by creation time (ms)
	KeyListingsCreated = "geomarket:listings:created"

	// KeyPrefixUser is the prefix for user records
	KeyPrefixUser = "geomarket:user:"
	// KeyPrefixUserEmail is the prefix for the email -> user ID lookup
	KeyPrefixUserEmail = "geomarket:users:email:"
	// KeyAllUsers is the set of all user IDs
	KeyAllUsers = "geomarket:users:all"
)

// Hash fields of a listing record.
const (
	fieldData    = "data"
	fieldSeller  = "seller"
	fieldDeleted = "deleted"
)

// ListingKey returns the Redis key for a listing by ID
func ListingKey(id string) string {
	return KeyPrefixListing + id
}

// SellerListingsKey returns the key of the set of live listings of a seller
func SellerListingsKey(sellerID string) string {
	return KeyPrefixSellerListings + sellerID
}

// UserKey returns the Redis key for a user by ID
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// UserEmailKey returns the lookup key for a user email
func UserEmailKey(email string) string {
	return KeyPrefixUserEmail + email
}
