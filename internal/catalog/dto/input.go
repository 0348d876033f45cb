package dto

// AddProductInput carries everything the add-product flow has collected.
// CategoryDigit is the menu number the user picked; it becomes the first
// character of the generated code.
type AddProductInput struct {
	CategoryDigit string
	Category      string
	Perishable    bool
	Name          string
	Brand         string
	Price         float64
	MinStock      int
	Location      string
	Package       string
}
