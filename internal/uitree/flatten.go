package uitree

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ID          int    `yaml:"i"           json:"i"`
	Role        string `yaml:"r"           json:"r"`
	Title       string `yaml:"t,omitempty" json:"t,omitempty"`
	Description string `yaml:"d,omitempty" json:"d,omitempty"`
	Enabled     bool   `yaml:"e"           json:"e"`
	Offscreen   bool   `yaml:"o,omitempty" json:"o,omitempty"`
	Unreadable  bool   `yaml:"u,omitempty" json:"u,omitempty"`
	Path        string `yaml:"p,omitempty" json:"p,omitempty"`
}

// Label returns the flat element's name.
func (f FlatElement) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Description
}

// FlattenElements converts a tree of elements into a flat list in
// depth-first order. Roles are normalised to compact codes and each element
// gets a path of role codes joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	role := MapRole(el.Role)
	currentPath := role
	if parentPath != "" {
		currentPath = parentPath + " > " + role
	}

	*result = append(*result, FlatElement{
		ID:          el.ID,
		Role:        role,
		Title:       el.Title,
		Description: el.Description,
		Enabled:     el.IsEnabled(),
		Offscreen:   el.Offscreen,
		Unreadable:  el.Unreadable,
		Path:        currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
