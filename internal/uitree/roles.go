package uitree

import "strings"

const (
	RoleButton   = "btn"
	RoleListItem = "item"
	RoleRow      = "row"
	RoleList     = "list"
	RoleWindow   = "window"
	RoleOther    = "other"
)

// RoleMap maps raw platform roles (macOS AXRole, Windows UI Automation
// control types) to compact role codes.
var RoleMap = map[string]string{
	"AXButton":     "btn",
	"AXStaticText": "txt",
	"AXLink":       "lnk",
	"AXTextField":  "input",
	"AXCheckBox":   "chk",
	"AXList":       "list",
	"AXTable":      "list",
	"AXRow":        "row",
	"AXCell":       "cell",
	"AXGroup":      "group",
	"AXScrollArea": "scroll",
	"AXWindow":     "window",

	"Button":      "btn",
	"SplitButton": "btn",
	"Text":        "txt",
	"Hyperlink":   "lnk",
	"Edit":        "input",
	"CheckBox":    "chk",
	"List":        "list",
	"ListItem":    "item",
	"DataItem":    "row",
	"Pane":        "group",
	"Group":       "group",
	"ScrollBar":   "scroll",
	"Window":      "window",
}

// compactRoles are role codes accepted as-is.
var compactRoles = map[string]bool{
	"btn": true, "txt": true, "lnk": true, "input": true, "chk": true,
	"list": true, "item": true, "row": true, "cell": true, "group": true,
	"scroll": true, "window": true, "other": true,
}

// MapRole converts a raw accessibility role to a compact code.
// Windows "ControlType.Button" spellings are accepted too.
func MapRole(raw string) string {
	raw = strings.TrimSpace(raw)
	if compactRoles[raw] {
		return raw
	}
	raw = strings.TrimPrefix(raw, "ControlType.")
	if short, ok := RoleMap[raw]; ok {
		return short
	}
	return RoleOther
}

// IsButton reports whether the role is a pressable button.
func IsButton(role string) bool {
	return MapRole(role) == RoleButton
}

// IsListItem reports whether the role is an entry of a scrollable list.
func IsListItem(role string) bool {
	switch MapRole(role) {
	case RoleListItem, RoleRow:
		return true
	}
	return false
}
