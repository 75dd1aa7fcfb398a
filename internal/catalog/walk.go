package catalog

import (
	"fmt"
	"strings"
)

// WalkEntry is one step of the cursor walk: the item being shown, its
// rendered description, and the name to pass as the next cursor. NextName is
// empty when the shown item is the last one.
type WalkEntry struct {
	Item     *CatalogItem
	Output   string
	NextName string
}

// Describe renders one catalog item in the walk display format. nextName is
// the full name of the item after this one, or empty for the last item.
func Describe(item *CatalogItem, nextName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n", item.FullName)

	switch item.Kind {
	case KindModule:
		b.WriteString("Type: module\n")
		if len(item.Contents) > 0 {
			b.WriteString("\nContents:\n")
			for _, name := range item.Contents {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
	case KindClass:
		b.WriteString("Type: class\n")
		hasMembers := false
		if len(item.Methods) > 0 {
			hasMembers = true
			b.WriteString("\nMethods:\n")
			for _, name := range item.Methods {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
		if len(item.Attributes) > 0 {
			hasMembers = true
			b.WriteString("\nAttributes:\n")
			for _, name := range item.Attributes {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
		if !hasMembers {
			b.WriteString("\n(no public direct members)\n")
		}
	case KindFunction:
		b.WriteString("Type: function\n")
	default:
		fmt.Fprintf(&b, "Type: %s\n", item.Kind)
	}

	if nextName != "" {
		fmt.Fprintf(&b, "\nNext: %s\n", nextName)
	} else {
		b.WriteString("\nThis is the last item.\n")
	}

	return b.String()
}
