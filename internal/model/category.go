package model

// Category is a user-defined spending bucket. Categories live inside the
// preferences blob, not as an independent collection; their order is
// significant and drives display and import auto-creation.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Palette is the fixed set of color tokens auto-assigned to categories
// that were created without an explicit color choice.
var Palette = []string{
	"#FF6B6B", // red
	"#4ECDC4", // teal
	"#FFE66D", // yellow
	"#95E1D3", // mint
	"#A78BFA", // violet
	"#F8A5C2", // pink
	"#63CDDA", // sky
	"#F5A962", // orange
}

// AutoColor picks the palette color for the category at position i in
// the ordered list, cycling when the palette is exhausted.
func AutoColor(i int) string {
	if i < 0 {
		i = 0
	}
	return Palette[i%len(Palette)]
}
