// Package diff compares two revisions of the same commercial document and
// reports per-field and per-line deltas. Comparison is a pure read: neither
// snapshot is modified and no state is kept between calls.
package diff

import (
	"errors"
	"sort"

	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/shopspring/decimal"
)

// ErrVersionOrder is returned when the snapshots are not passed oldest-first
var ErrVersionOrder = errors.New("older snapshot must have a lower version than newer snapshot")

// ChangeKind classifies an item or line between two revisions.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
)

// FieldDelta is the change of one numeric field between revisions.
// PercentChange is nil when the old value is zero: a change from zero has no
// meaningful percentage. When both values are zero the field is reported as
// unchanged rather than as an ambiguous 0%.
type FieldDelta struct {
	Field         string           `json:"field"`
	OldValue      decimal.Decimal  `json:"oldValue"`
	NewValue      decimal.Decimal  `json:"newValue"`
	Change        decimal.Decimal  `json:"change"`
	PercentChange *decimal.Decimal `json:"percentChange,omitempty"`
	Changed       bool             `json:"changed"`
}

// ItemDiff is the comparison result for one item, matched across revisions
// by its stable item code rather than by position.
type ItemDiff struct {
	ItemCode    string       `json:"itemCode"`
	Description string       `json:"description,omitempty"`
	Kind        ChangeKind   `json:"kind"`
	Fields      []FieldDelta `json:"fields,omitempty"`
}

// LineDiff groups item results under the line number they appear on in the
// newer revision (or the older one, for removed lines).
type LineDiff struct {
	LineNumber int        `json:"lineNumber"`
	Heading    string     `json:"heading,omitempty"`
	Kind       ChangeKind `json:"kind"`
	Items      []ItemDiff `json:"items"`
	TotalDelta FieldDelta `json:"totalDelta"`
}

// DocumentDiff is the full comparison of two revisions: a document-level
// delta summary plus per-line classifications ordered by line number.
type DocumentDiff struct {
	OlderVersion int          `json:"olderVersion"`
	NewerVersion int          `json:"newerVersion"`
	Totals       []FieldDelta `json:"totals"`
	Lines        []LineDiff   `json:"lines"`
}

// itemFields lists the per-item numeric fields compared between revisions.
var itemFields = []struct {
	name string
	get  func(pricing.Item) decimal.Decimal
}{
	{"quantity", func(i pricing.Item) decimal.Decimal { return i.Quantity }},
	{"unitPrice", func(i pricing.Item) decimal.Decimal { return i.UnitPrice }},
	{"discountPercent", func(i pricing.Item) decimal.Decimal { return i.DiscountPercent }},
	{"taxPercent", func(i pricing.Item) decimal.Decimal { return i.TaxPercent }},
	{"subtotal", func(i pricing.Item) decimal.Decimal { return i.Subtotal }},
	{"total", func(i pricing.Item) decimal.Decimal { return i.Total }},
}

// Compare diffs two snapshots of the same logical document. The caller
// guarantees both snapshots share one identity; Compare only checks that the
// versions are passed oldest-first.
func Compare(older, newer pricing.Document) (DocumentDiff, error) {
	if older.Version >= newer.Version {
		return DocumentDiff{}, ErrVersionOrder
	}

	result := DocumentDiff{
		OlderVersion: older.Version,
		NewerVersion: newer.Version,
		Totals: []FieldDelta{
			newFieldDelta("subtotal", older.Subtotal, newer.Subtotal),
			newFieldDelta("discountTotal", older.DiscountTotal, newer.DiscountTotal),
			newFieldDelta("taxTotal", older.TaxTotal, newer.TaxTotal),
			newFieldDelta("total", older.Total, newer.Total),
		},
	}

	oldItems := indexItems(older)
	newItems := indexItems(newer)

	oldLines := indexLines(older)
	newLines := indexLines(newer)

	for _, lineNumber := range unionLineNumbers(oldLines, newLines) {
		oldLine, inOld := oldLines[lineNumber]
		newLine, inNew := newLines[lineNumber]

		switch {
		case inNew && !inOld:
			result.Lines = append(result.Lines, addedLine(newLine))
		case inOld && !inNew:
			result.Lines = append(result.Lines, removedLine(oldLine, newItems))
		default:
			result.Lines = append(result.Lines, comparedLine(oldLine, newLine, oldItems, newItems))
		}
	}

	return result, nil
}

// addedLine reports a line present only in the newer revision.
func addedLine(line pricing.Line) LineDiff {
	ld := LineDiff{
		LineNumber: line.LineNumber,
		Heading:    line.Heading,
		Kind:       ChangeAdded,
		TotalDelta: newFieldDelta("lineTotal", decimal.Zero, line.LineTotal),
	}
	for _, item := range line.Items {
		ld.Items = append(ld.Items, ItemDiff{
			ItemCode:    item.ItemCode,
			Description: item.Description,
			Kind:        ChangeAdded,
		})
	}
	return ld
}

// removedLine reports a line present only in the older revision. Items that
// merely moved to another line still exist in the newer snapshot and are
// compared there, so they are not repeated here.
func removedLine(line pricing.Line, newItems map[string]pricing.Item) LineDiff {
	ld := LineDiff{
		LineNumber: line.LineNumber,
		Heading:    line.Heading,
		Kind:       ChangeRemoved,
		TotalDelta: newFieldDelta("lineTotal", line.LineTotal, decimal.Zero),
	}
	for _, item := range line.Items {
		if _, moved := newItems[item.ItemCode]; moved {
			continue
		}
		ld.Items = append(ld.Items, ItemDiff{
			ItemCode:    item.ItemCode,
			Description: item.Description,
			Kind:        ChangeRemoved,
		})
	}
	return ld
}

// comparedLine diffs a line present in both revisions, item by item.
func comparedLine(oldLine, newLine pricing.Line, oldItems, newItems map[string]pricing.Item) LineDiff {
	ld := LineDiff{
		LineNumber: newLine.LineNumber,
		Heading:    newLine.Heading,
		TotalDelta: newFieldDelta("lineTotal", oldLine.LineTotal, newLine.LineTotal),
	}

	modified := false
	for _, item := range newLine.Items {
		oldItem, existed := oldItems[item.ItemCode]
		if !existed {
			modified = true
			ld.Items = append(ld.Items, ItemDiff{
				ItemCode:    item.ItemCode,
				Description: item.Description,
				Kind:        ChangeAdded,
			})
			continue
		}
		id := compareItems(oldItem, item)
		if id.Kind == ChangeModified {
			modified = true
		}
		ld.Items = append(ld.Items, id)
	}

	// Items that were on this line before and exist nowhere in the newer
	// revision are removals belonging to this line.
	for _, item := range oldLine.Items {
		if _, exists := newItems[item.ItemCode]; exists {
			continue
		}
		modified = true
		ld.Items = append(ld.Items, ItemDiff{
			ItemCode:    item.ItemCode,
			Description: item.Description,
			Kind:        ChangeRemoved,
		})
	}

	if modified || ld.TotalDelta.Changed || oldLine.Heading != newLine.Heading {
		ld.Kind = ChangeModified
	} else {
		ld.Kind = ChangeUnchanged
	}
	return ld
}

// compareItems produces field deltas for an item present in both revisions.
func compareItems(oldItem, newItem pricing.Item) ItemDiff {
	id := ItemDiff{
		ItemCode:    newItem.ItemCode,
		Description: newItem.Description,
		Kind:        ChangeUnchanged,
	}
	for _, f := range itemFields {
		delta := newFieldDelta(f.name, f.get(oldItem), f.get(newItem))
		id.Fields = append(id.Fields, delta)
		if delta.Changed {
			id.Kind = ChangeModified
		}
	}
	return id
}

func newFieldDelta(field string, oldValue, newValue decimal.Decimal) FieldDelta {
	change := newValue.Sub(oldValue)
	delta := FieldDelta{
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Change:   change,
		Changed:  !change.IsZero(),
	}
	if !oldValue.IsZero() {
		pct := change.Div(oldValue).Mul(decimal.NewFromInt(100)).Round(2)
		delta.PercentChange = &pct
	}
	return delta
}

func indexItems(doc pricing.Document) map[string]pricing.Item {
	index := make(map[string]pricing.Item)
	for _, item := range doc.FlattenItems() {
		index[item.ItemCode] = item
	}
	return index
}

func indexLines(doc pricing.Document) map[int]pricing.Line {
	index := make(map[int]pricing.Line, len(doc.Lines))
	for _, line := range doc.Lines {
		index[line.LineNumber] = line
	}
	return index
}

func unionLineNumbers(older, newer map[int]pricing.Line) []int {
	seen := make(map[int]bool, len(older)+len(newer))
	var numbers []int
	for n := range older {
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	for n := range newer {
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)
	return numbers
}
