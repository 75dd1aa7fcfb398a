package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-refdocs/internal/identity"
)

// BuiltinsFile is the decoded shape of data/builtins.json.
type BuiltinsFile struct {
	Version string        `json:"version"`
	Items   []BuiltinItem `json:"items"`
}

// BuiltinItem describes one builtin name.
type BuiltinItem struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Summary    string      `json:"summary,omitempty"`
	Methods    []string    `json:"methods,omitempty"`
	Attributes []string    `json:"attributes,omitempty"`
	Operations []Operation `json:"operations,omitempty"`
}

// StdlibFile is the decoded shape of data/stdlib.json.
type StdlibFile struct {
	Version string        `json:"version"`
	Modules []ModuleEntry `json:"modules"`
}

// ModuleEntry describes one stdlib module and its public members.
type ModuleEntry struct {
	Name    string        `json:"name"`
	Summary string        `json:"summary,omitempty"`
	Members []MemberEntry `json:"members,omitempty"`
}

// MemberEntry describes one public module member.
type MemberEntry struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	Summary    string      `json:"summary,omitempty"`
	Methods    []string    `json:"methods,omitempty"`
	Attributes []string    `json:"attributes,omitempty"`
	Operations []Operation `json:"operations,omitempty"`
}

// LoadDataFiles reads and decodes both data files.
func LoadDataFiles(builtinsPath, stdlibPath string) (*BuiltinsFile, *StdlibFile, error) {
	var builtins BuiltinsFile
	if err := decodeFile(builtinsPath, &builtins); err != nil {
		return nil, nil, err
	}

	var stdlib StdlibFile
	if err := decodeFile(stdlibPath, &stdlib); err != nil {
		return nil, nil, err
	}

	return &builtins, &stdlib, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataFileUnreadable, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataFileMalformed, path, err)
	}
	return nil
}

// BuildItems constructs the catalog item list from the decoded data files:
// every builtin as "builtins.<name>", every module under its own name, and
// every member as "<module>.<member>". Duplicate full names keep the first
// occurrence; the result is sorted by lowercased full name.
func BuildItems(builtins *BuiltinsFile, stdlib *StdlibFile) []*CatalogItem {
	var items []*CatalogItem
	seen := map[string]struct{}{}

	add := func(item *CatalogItem) {
		if _, ok := seen[item.FullName]; ok {
			return
		}
		seen[item.FullName] = struct{}{}
		item.ID = identity.CatalogItemUUID(item.Origin, item.FullName)
		item.SortKey = strings.ToLower(item.FullName)
		items = append(items, item)
	}

	if builtins != nil {
		for _, entry := range builtins.Items {
			add(&CatalogItem{
				FullName:   "builtins." + entry.Name,
				Kind:       kindForCategory(entry.Category),
				Origin:     OriginBuiltins,
				Category:   entry.Category,
				Module:     "builtins",
				Summary:    nullableString(entry.Summary),
				Methods:    sortedCopy(entry.Methods),
				Attributes: sortedCopy(entry.Attributes),
				Operations: append([]Operation(nil), entry.Operations...),
			})
		}
	}

	if stdlib != nil {
		for _, module := range stdlib.Modules {
			contents := make([]string, 0, len(module.Members))
			for _, member := range module.Members {
				contents = append(contents, member.Name)
			}
			sort.Strings(contents)

			add(&CatalogItem{
				FullName: module.Name,
				Kind:     KindModule,
				Origin:   OriginStdlib,
				Module:   module.Name,
				Summary:  nullableString(module.Summary),
				Contents: contents,
			})

			for _, member := range module.Members {
				add(&CatalogItem{
					FullName:   module.Name + "." + member.Name,
					Kind:       memberKind(member.Kind),
					Origin:     OriginStdlib,
					Category:   member.Kind,
					Module:     module.Name,
					Summary:    nullableString(member.Summary),
					Methods:    sortedCopy(member.Methods),
					Attributes: sortedCopy(member.Attributes),
					Operations: append([]Operation(nil), member.Operations...),
				})
			}
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].SortKey < items[j].SortKey
	})
	return items
}

func kindForCategory(category string) string {
	switch category {
	case "functions":
		return KindFunction
	case "types", "exceptions":
		return KindClass
	default:
		return KindConstant
	}
}

func memberKind(kind string) string {
	switch kind {
	case "class":
		return KindClass
	case "function":
		return KindFunction
	default:
		return KindConstant
	}
}

func nullableString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
