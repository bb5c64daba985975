// Package uitree models the accessibility tree of the target application and
// adapts element backends to the scan loop's snapshot provider.
package uitree

// Element represents a UI element in the accessibility tree.
type Element struct {
	ID          int       `yaml:"id,omitempty"          json:"i"`           // Sequential integer ID
	Role        string    `yaml:"role"                  json:"r"`           // Compact role code or raw platform role
	Title       string    `yaml:"title,omitempty"       json:"t,omitempty"` // Visible label / title
	Description string    `yaml:"description,omitempty" json:"d,omitempty"` // Accessibility description
	Enabled     *bool     `yaml:"enabled,omitempty"     json:"e,omitempty"` // nil or true = enabled
	Offscreen   bool      `yaml:"offscreen,omitempty"   json:"o,omitempty"` // Outside the visible viewport
	Unreadable  bool      `yaml:"unreadable,omitempty"  json:"u,omitempty"` // Name property could not be read
	Children    []Element `yaml:"children,omitempty"    json:"c,omitempty"`
}

// IsEnabled treats a missing enabled attribute as enabled.
func (e Element) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Label returns the element's name: its title, or its description when untitled.
func (e Element) Label() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Description
}

// AssignIDs numbers elements depth-first starting at 1, overwriting existing IDs.
// It returns the number of elements numbered.
func AssignIDs(elements []Element) int {
	return AssignIDsFrom(elements, 1) - 1
}

// AssignIDsFrom numbers elements depth-first starting at first and returns
// the next unused ID.
func AssignIDsFrom(elements []Element, first int) int {
	next := first
	assignRecursive(elements, &next)
	return next
}

func assignRecursive(elements []Element, next *int) {
	for i := range elements {
		elements[i].ID = *next
		*next++
		assignRecursive(elements[i].Children, next)
	}
}

// FindByID returns a pointer into the tree for the element with the given ID.
func FindByID(elements []Element, id int) *Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if found := FindByID(elements[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Clone deep-copies a tree so callers can mutate it freely.
func Clone(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	result := make([]Element, len(elements))
	for i, el := range elements {
		result[i] = el
		if el.Enabled != nil {
			v := *el.Enabled
			result[i].Enabled = &v
		}
		result[i].Children = Clone(el.Children)
	}
	return result
}
