package domain

import "strings"

// Customer is the buyer info collected at checkout. It only lives for the
// duration of one checkout; committed receipts keep their own copy.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Normalize trims all fields in place.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
}

// Validate normalizes the customer and checks the required fields.
// Address is optional.
func (c *Customer) Validate() error {
	c.Normalize()
	if c.Name == "" || c.Email == "" {
		return ErrMissingCustomerInfo
	}
	return nil
}
