package domain

// Product is a catalog entry. Stock is decremented only by a committed
// checkout, never by cart mutations.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}
