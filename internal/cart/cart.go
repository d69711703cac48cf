// Package cart holds the buyer's product selection until checkout.
package cart

import (
	"context"
	"dealdesk/internal/logger"
	"dealdesk/internal/models"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrEmpty = errors.New("Корзина пуста.")

type API interface {
	Checkout(ctx context.Context, items []models.CartItem) ([]int64, error)
}

type Cart struct {
	client API
	log    *logger.Logger

	mu    sync.Mutex
	items []models.CartItem
}

func New(client API, log *logger.Logger) *Cart {
	return &Cart{client: client, log: log}
}

func (c *Cart) indexOf(productID int64) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of product in the cart, merging with an existing line.
// Non-positive quantities are ignored.
func (c *Cart) Add(product models.Product, qty int) {
	if qty <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: qty})
}

func (c *Cart) Increment(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.items[i].Quantity++
	}
}

// Decrement lowers the quantity by one; the line is dropped at zero.
func (c *Cart) Decrement(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items[i].Quantity--
	if c.items[i].Quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Checkout sends the cart to the backend and empties it on success.
func (c *Cart) Checkout(ctx context.Context) ([]int64, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmpty
	}

	ids, err := c.client.Checkout(ctx, items)
	if err != nil {
		c.log.WithComponent("cart").WithError(err).Warn("Не удалось оформить заказ.")
		return nil, fmt.Errorf("Не удалось оформить заказ: %w", err)
	}

	c.Clear()
	c.log.WithComponent("cart").WithField("deals", ids).Info("Заказ оформлен.")
	return ids, nil
}
