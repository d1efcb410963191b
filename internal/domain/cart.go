package domain

// CartLine is one product entry with a quantity inside a shopping cart.
// Name, UnitPrice and ImageRef are snapshotted from the catalog when the
// line is created, so the cart renders without extra product lookups.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image_ref"`
}

// Cart is an ordered collection of lines. Insertion order is preserved for
// display; no two lines share a ProductID.
type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// Add merges the incoming line into the cart. If a line with the same
// product id already exists its quantity is incremented, otherwise the line
// is appended.
func (c *Cart) Add(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// Remove deletes the line matching productID. Removing an absent product is
// a no-op.
func (c *Cart) Remove(productID int64) {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of the line matching productID and
// reports whether a line was updated. Quantities below 1 are rejected and
// leave the cart unchanged.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

// ItemCount returns the sum of all line quantities (badge display).
func (c *Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal returns the sum of unit price times quantity across all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
