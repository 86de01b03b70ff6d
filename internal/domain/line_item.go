package domain

// LineItem is a single row of the invoice currently being edited
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   float64 `json:"qty"`
}

// ItemField names an editable LineItem field
type ItemField string

const (
	FieldName  ItemField = "name"
	FieldPrice ItemField = "price"
	FieldQty   ItemField = "qty"
)

// NewLineItem returns the blank row added by the "add item" action
func NewLineItem() LineItem {
	return LineItem{Name: "", Price: 0, Qty: 1}
}

// Amount returns price * qty
func (li LineItem) Amount() float64 {
	return li.Price * li.Qty
}

// Visible reports whether the row belongs in a rendered preview.
// Rows with no name and no positive price are kept for editing but hidden.
func (li LineItem) Visible() bool {
	return li.Name != "" || li.Price > 0
}

// CopyItems returns an independent copy of items. A nil input yields an empty slice.
func CopyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
