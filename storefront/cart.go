package storefront

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ashastore/asha-api/models"
)

// LineItem is one cart entry. Two entries are the same item iff product
// ID and size both match; merges keep the original key.
type LineItem struct {
	Key          string  `json:"key"`
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	Size         string  `json:"size,omitempty"`
	StockCeiling int     `json:"stock_ceiling,omitempty"` // 0 = unknown
}

// Notifier receives user-facing warnings; constraint violations surface
// only here, never as errors to callers.
type Notifier func(message string)

// Cart holds the items a shopper intends to purchase and enforces the
// quantity/stock constraints. Safe for use from multiple goroutines.
type Cart struct {
	mu     sync.Mutex
	items  []LineItem
	notify Notifier
	store  Store // optional snapshot persistence
}

// NewCart builds an in-memory cart. notify may be nil; store may be nil
// for the non-persistent variant.
func NewCart(notify Notifier, store Store) *Cart {
	if notify == nil {
		notify = func(string) {}
	}
	return &Cart{notify: notify, store: store}
}

func lineKey(productID uint, size string) string {
	return fmt.Sprintf("%d-%s-%d", productID, size, time.Now().UnixNano())
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// AddItem merges quantity into an existing line when (productID, size)
// matches, otherwise appends a new line. An add that would exceed a known
// stock ceiling is rejected whole: no mutation, only a warning.
func (c *Cart) AddItem(p models.Product, quantity int, size string) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == p.ID && c.items[i].Size == size {
			merged := c.items[i].Quantity + quantity
			if ceiling := c.items[i].StockCeiling; ceiling > 0 && merged > ceiling {
				c.notify(fmt.Sprintf("Only %d of %s available", ceiling, p.Name))
				return
			}
			c.items[i].Quantity = merged
			c.persist()
			return
		}
	}

	if p.Stock > 0 && quantity > p.Stock {
		c.notify(fmt.Sprintf("Only %d of %s available", p.Stock, p.Name))
		return
	}

	c.items = append(c.items, LineItem{
		Key:          lineKey(p.ID, size),
		ProductID:    p.ID,
		Name:         p.Name,
		UnitPrice:    p.SalePrice,
		Quantity:     quantity,
		Size:         size,
		StockCeiling: p.Stock,
	})
	c.persist()
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the
// line; a quantity above a known ceiling is rejected with a warning.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(key)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Key != key {
			continue
		}
		if ceiling := c.items[i].StockCeiling; ceiling > 0 && quantity > ceiling {
			c.notify(fmt.Sprintf("Only %d of %s available", ceiling, c.items[i].Name))
			return
		}
		c.items[i].Quantity = quantity
		c.persist()
		return
	}
}

// RemoveItem deletes the line unconditionally.
func (c *Cart) RemoveItem(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return
		}
	}
}

// Clear empties the cart; called after checkout submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total is the sum of unit price times quantity over all lines,
// normalized to two decimal places.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return round2(total)
}

// persist snapshots the item list when a store is configured. Caller
// holds the lock.
func (c *Cart) persist() {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(c.items)
	if err != nil {
		return
	}
	_ = c.store.Set(CartKey, string(data))
}

// Restore loads a previously persisted snapshot, replacing the current
// contents. A missing or corrupt snapshot leaves the cart empty.
func (c *Cart) Restore() {
	if c.store == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.store.Get(CartKey)
	if !ok {
		return
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return
	}
	c.items = items
}
