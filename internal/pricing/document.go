package pricing

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// DocType distinguishes the two commercial document kinds sharing this
// line model.
type DocType string

const (
	DocTypeQuotation  DocType = "quotation"
	DocTypeSalesOrder DocType = "sales_order"
)

var (
	// ErrDuplicateLineNumber is returned when a line number already exists on the document
	ErrDuplicateLineNumber = errors.New("line number already exists on document")

	// ErrLineNotFound is returned when a line number does not exist on the document
	ErrLineNotFound = errors.New("line not found on document")
)

// Document is the in-memory editing snapshot of a quotation or sales order:
// an ordered set of lines plus document-level totals. It is a plain value;
// persistence and concurrency control belong to the caller. Version is the
// revision counter of the logical document, incremented by the owning
// service on save.
type Document struct {
	DocType  DocType `json:"docType"`
	Number   string  `json:"number,omitempty"`
	Version  int     `json:"version"`
	Currency string  `json:"currency"`
	Lines    []Line  `json:"lines"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`
}

// RecomputeTotals recomputes every line and sums document totals across all
// items. Subtotal, discount and tax are summed independently so the
// breakdown stays exact for display; the grand total is derived as
// subtotal − discount + tax. An empty document yields all-zero totals.
//
// Callers invoke this explicitly after every structural change; nothing
// subscribes to child mutations behind the scenes.
func RecomputeTotals(doc Document) Document {
	lines := make([]Line, len(doc.Lines))
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero

	for i, line := range doc.Lines {
		lines[i] = RecomputeLine(line)
		for _, item := range lines[i].Items {
			subtotal = subtotal.Add(item.Subtotal)
			discount = discount.Add(item.DiscountAmount)
			tax = tax.Add(item.TaxAmount)
		}
	}

	doc.Lines = lines
	doc.Subtotal = subtotal
	doc.DiscountTotal = discount
	doc.TaxTotal = tax
	doc.Total = subtotal.Sub(discount).Add(tax)
	return doc
}

// FlattenItems returns all items across all lines in display order.
func (d Document) FlattenItems() []Item {
	var items []Item
	for _, line := range d.Lines {
		items = append(items, line.Items...)
	}
	return items
}

// LineByNumber returns the line with the given number.
func (d Document) LineByNumber(lineNumber int) (Line, bool) {
	for _, line := range d.Lines {
		if line.LineNumber == lineNumber {
			return line, true
		}
	}
	return Line{}, false
}

// NextLineNumber returns the lowest unused positive line number.
func (d Document) NextLineNumber() int {
	max := 0
	for _, line := range d.Lines {
		if line.LineNumber > max {
			max = line.LineNumber
		}
	}
	return max + 1
}

// AddLine appends a line and recomputes totals. Line numbers must be unique
// within the document; pass 0 to assign the next free number.
func AddLine(doc Document, line Line) (Document, error) {
	if line.LineNumber == 0 {
		line.LineNumber = doc.NextLineNumber()
	}
	for _, existing := range doc.Lines {
		if existing.LineNumber == line.LineNumber {
			return doc, ErrDuplicateLineNumber
		}
	}

	lines := make([]Line, len(doc.Lines), len(doc.Lines)+1)
	copy(lines, doc.Lines)
	doc.Lines = append(lines, RecomputeLine(line))
	sortLines(doc.Lines)
	return RecomputeTotals(doc), nil
}

// RemoveLine removes the line with the given number and recomputes totals.
func RemoveLine(doc Document, lineNumber int) (Document, error) {
	lines := make([]Line, 0, len(doc.Lines))
	found := false
	for _, line := range doc.Lines {
		if line.LineNumber == lineNumber {
			found = true
			continue
		}
		lines = append(lines, line)
	}
	if !found {
		return doc, ErrLineNotFound
	}
	doc.Lines = lines
	return RecomputeTotals(doc), nil
}

// ReplaceLine swaps in an updated line (matched by number) and recomputes
// totals. Used by the item-level operations which act on a single line.
func ReplaceLine(doc Document, updated Line) (Document, error) {
	lines := make([]Line, len(doc.Lines))
	found := false
	for i, line := range doc.Lines {
		if line.LineNumber == updated.LineNumber {
			found = true
			lines[i] = updated
			continue
		}
		lines[i] = line
	}
	if !found {
		return doc, ErrLineNotFound
	}
	doc.Lines = lines
	return RecomputeTotals(doc), nil
}

func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].LineNumber < lines[j].LineNumber
	})
}
