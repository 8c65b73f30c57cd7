package category

// Category is the public DTO returned by the category API. Categories are
// derived from the menu, so Name doubles as the id.
type Category struct {
	Name      string  `json:"categoryName"`
	ItemCount int     `json:"itemCount"`
	Image     *string `json:"categoryImg,omitempty"`
}
