package domain

// Snapshot is the title/price captured when a product is first added to the
// cart, used as a display fallback if the catalog entry later changes or
// disappears.
type Snapshot struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// CartLine is one product in the cart. Quantity is always > 0; a line that
// would reach 0 is removed instead.
type CartLine struct {
	ProductID string   `json:"id"`
	Quantity  int      `json:"qty"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Cart holds the current unpurchased selections, ordered by insertion.
// Product ids are unique across lines.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Find returns a pointer to the line for the given product, or nil.
func (c *Cart) Find(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Remove deletes the line for the given product if present.
func (c *Cart) Remove(productID string) {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// TotalUnits is the sum of all line quantities (the cart badge number).
func (c *Cart) TotalUnits() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
