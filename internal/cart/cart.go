package cart

// LineItem is one product entry in a cart, keyed by product id. Name, image
// and unit price are copied at add time and never refreshed from the catalog.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Add merges the item into the lines: an existing product id has its quantity
// incremented, otherwise a new line is appended. A quantity <= 0 is coerced
// to 1 so no zero or negative line can ever be produced. The input slice is
// not modified.
func Add(lines []LineItem, item LineItem, qty int) []LineItem {
	if qty <= 0 {
		qty = 1
	}

	out := make([]LineItem, len(lines))
	copy(out, lines)

	for i := range out {
		if out[i].ProductID == item.ProductID {
			out[i].Quantity += qty
			return out
		}
	}

	item.Quantity = qty
	return append(out, item)
}

// SetQuantity sets the line's quantity to qty when qty >= 1. A qty < 1 leaves
// the line unchanged; removal is a distinct operation, never implied by
// reaching zero. An unknown product id is a no-op.
func SetQuantity(lines []LineItem, productID string, qty int) []LineItem {
	if qty < 1 {
		return lines
	}

	out := make([]LineItem, len(lines))
	copy(out, lines)

	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = qty
			break
		}
	}
	return out
}

// Remove deletes the line for the product id if present; otherwise a no-op.
func Remove(lines []LineItem, productID string) []LineItem {
	out := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == productID {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Total sums unit price times quantity over all lines.
func Total(lines []LineItem) float64 {
	var total float64
	for _, line := range lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// ItemCount sums quantities over all lines.
func ItemCount(lines []LineItem) int {
	var count int
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
