package booking

import (
	"github.com/iliyamo/moviex-storefront/internal/model"
)

// SnackSelection is emitted after every adjustment.
type SnackSelection struct {
	Total int64          `json:"total"`
	Items map[string]int `json:"items"`
}

// MaxSnackQuantity caps the quantity of a single snack line.
const MaxSnackQuantity = 99

// SnackCart keeps a quantity per catalog id.  Entries that drop to zero
// are removed so the mapping never contains zero quantities.
type SnackCart struct {
	prices     map[string]int64
	quantities map[string]int
}

// NewSnackCart returns an empty cart priced against catalog.
func NewSnackCart(catalog []model.SnackItem) *SnackCart {
	prices := make(map[string]int64, len(catalog))
	for _, s := range catalog {
		prices[s.ID] = s.Price
	}
	return &SnackCart{prices: prices, quantities: map[string]int{}}
}

// Adjust adds delta to the quantity of id, clamping to
// 0..MaxSnackQuantity.  Ids that are not in the catalog are tracked but
// contribute nothing to the total.
func (c *SnackCart) Adjust(id string, delta int) SnackSelection {
	cur := c.quantities[id]
	var qty int
	switch {
	case delta >= MaxSnackQuantity-cur:
		qty = MaxSnackQuantity
	case delta <= -cur:
		qty = 0
	default:
		qty = cur + delta
	}
	if qty == 0 {
		delete(c.quantities, id)
	} else {
		c.quantities[id] = qty
	}
	return c.Selection()
}

// Selection recomputes the total from scratch and returns a copy of the
// current mapping.
func (c *SnackCart) Selection() SnackSelection {
	items := make(map[string]int, len(c.quantities))
	var total int64
	for id, qty := range c.quantities {
		items[id] = qty
		total += c.prices[id] * int64(qty)
	}
	return SnackSelection{Total: total, Items: items}
}

// Quantity returns the current quantity of id.
func (c *SnackCart) Quantity(id string) int { return c.quantities[id] }
