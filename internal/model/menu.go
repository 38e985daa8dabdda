package model

// NavItem is a node of the public navigation tree.
type NavItem struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Position int       `json:"position"`
	IsActive bool      `json:"is_active"`
	Icon     *string   `json:"icon,omitempty"`
	CSSClass *string   `json:"css_class,omitempty"`
	Children []NavItem `json:"children"`
}
