package models

// Item is a listing. Sold and BuyerID are set together, exactly once; after
// the sale the record is immutable except for its single rating write.
// Rating 0 means "unrated".
type Item struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	Category    string
	Tags        []string
	Price       float64
	Rating      float64
	Sold        bool
	BuyerID     string

	// Seq is the creation order of the item, assigned by the store under
	// its lock. It decides which sold item is "oldest" when a seller
	// rating arrives and keeps listings in a stable order.
	Seq int64
}
