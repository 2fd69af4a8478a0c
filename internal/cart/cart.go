// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart holds the shopping cart.

The reducers ([AddItem], [RemoveItem], [SetQuantity], [Clear]) are pure:
they take a [Cart] value and return a new one, never mutating their input.
[Store] serialises dispatch and announces every change to subscribers.

Invariants kept by every reducer:

  - At most one line per product ID, in first-insertion order.
  - Total equals the sum of unit price times quantity over all lines.

Quantities are not clamped against stock here; the UI owns those limits.
*/
package cart

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/bahari/internal/market"
)

// CurrencyCode prefixes formatted totals. Prices are whole shillings.
const CurrencyCode = "TZS"

// Line is one product in the cart.
type Line struct {
	ProductID string         `json:"productId"`
	Product   market.Product `json:"product"`
	Quantity  int            `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() int64 {
	return l.Product.UnitPrice() * int64(l.Quantity)
}

// Cart is an immutable snapshot of the cart.
type Cart struct {
	Lines []Line `json:"items"`
	Total int64  `json:"total"`
}

// # Reducers

// AddItem sums quantity into an existing line or appends a new one.
func AddItem(c Cart, product market.Product, quantity int) Cart {
	lines := c.clone()

	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity += quantity
			return build(lines)
		}
	}

	return build(append(lines, Line{ProductID: product.ID, Product: product, Quantity: quantity}))
}

// RemoveItem drops the line for productID. An unknown ID leaves the cart unchanged.
func RemoveItem(c Cart, productID string) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	return build(lines)
}

// SetQuantity replaces the quantity of productID verbatim. An unknown ID is a no-op.
func SetQuantity(c Cart, productID string, quantity int) Cart {
	lines := c.clone()
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
		}
	}
	return build(lines)
}

// Deduct subtracts checked-out quantities and drops lines that reach zero.
// Lines not named in submitted, or added after it was taken, are kept.
func Deduct(c Cart, submitted []market.OrderLineInput) Cart {
	sold := make(map[string]int, len(submitted))
	for _, item := range submitted {
		sold[item.ProductID] += item.Quantity
	}

	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if quantity, ok := sold[line.ProductID]; ok {
			line.Quantity -= quantity
			if line.Quantity <= 0 {
				continue
			}
		}
		lines = append(lines, line)
	}
	return build(lines)
}

// Clear returns an empty cart.
func Clear() Cart {
	return Cart{}
}

// build recomputes the total over lines.
func build(lines []Line) Cart {
	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}

	if len(lines) == 0 {
		lines = nil
	}
	return Cart{Lines: lines, Total: total}
}

func (c Cart) clone() []Line {
	lines := make([]Line, len(c.Lines), len(c.Lines)+1)
	copy(lines, c.Lines)
	return lines
}

// # Queries

// Line returns the line for productID.
func (c Cart) Line(productID string) (Line, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}

// Count is the number of units across all lines.
func (c Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FormattedTotal renders the total with thousands separators, e.g. "TZS 24,500".
func (c Cart) FormattedTotal() string {
	return FormatAmount(c.Total)
}

// FormatAmount renders a whole-shilling amount for display.
func FormatAmount(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("%s %d", CurrencyCode, amount)
}

// OrderLines converts the cart into checkout lines.
func (c Cart) OrderLines() []market.OrderLineInput {
	items := make([]market.OrderLineInput, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, market.OrderLineInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

// normalise merges duplicate product lines and recomputes the total.
func (c Cart) normalise() Cart {
	var merged Cart
	for _, line := range c.Lines {
		if line.ProductID == "" {
			line.ProductID = line.Product.ID
		}
		if line.ProductID == "" {
			continue
		}
		line.Product.ID = line.ProductID
		merged = AddItem(merged, line.Product, line.Quantity)
	}
	return merged
}
