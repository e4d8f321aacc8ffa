package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned when an item code does not exist on a line
var ErrItemNotFound = errors.New("item not found on line")

// Line is a numbered group of items under an optional heading. The heading
// is the external-facing description shown to the customer and lives on the
// line itself, so it survives removal of any individual item. LineNumber is
// unique within a document and defines display order; items keep insertion
// order.
type Line struct {
	LineNumber int             `json:"lineNumber"`
	Heading    string          `json:"heading,omitempty"`
	Items      []Item          `json:"items"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// RecomputeLine recomputes every item on the line and the line total.
// Returns a new line; the input is not modified.
func RecomputeLine(line Line) Line {
	items := make([]Item, len(line.Items))
	total := decimal.Zero
	for i, item := range line.Items {
		items[i] = Recompute(item)
		total = total.Add(items[i].Total)
	}
	line.Items = items
	line.LineTotal = total
	return line
}

// AddItem appends an item to the line and recomputes the line total.
func AddItem(line Line, item Item) Line {
	items := make([]Item, len(line.Items), len(line.Items)+1)
	copy(items, line.Items)
	line.Items = append(items, Recompute(item))
	return RecomputeLine(line)
}

// RemoveItem removes the item with the given code and recomputes the line
// total. The line heading is untouched: the first remaining item does not
// inherit any header role. Returns ErrItemNotFound when no item matches.
func RemoveItem(line Line, itemCode string) (Line, error) {
	items := make([]Item, 0, len(line.Items))
	found := false
	for _, item := range line.Items {
		if item.ItemCode == itemCode {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return line, ErrItemNotFound
	}
	line.Items = items
	return RecomputeLine(line), nil
}

// UpdateItem applies a patch to the item with the given code, recomputes the
// item and the line total. The patch is validated first so an out-of-range
// discount never reaches a computed total.
func UpdateItem(line Line, itemCode string, patch ItemPatch) (Line, error) {
	if err := patch.Validate(); err != nil {
		return line, err
	}

	items := make([]Item, len(line.Items))
	found := false
	for i, item := range line.Items {
		if item.ItemCode == itemCode {
			found = true
			items[i] = Recompute(patch.apply(item))
			continue
		}
		items[i] = item
	}
	if !found {
		return line, ErrItemNotFound
	}
	line.Items = items
	return RecomputeLine(line), nil
}
