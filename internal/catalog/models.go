package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Item kinds. Builtins categories map onto these: functions become
// functions, types and exceptions become classes, everything else a
// constant.
const (
	KindModule   = "module"
	KindClass    = "class"
	KindFunction = "function"
	KindConstant = "constant"
)

// Item origins name the data file an item was seeded from.
const (
	OriginBuiltins = "builtins"
	OriginStdlib   = "stdlib"
)

// Operation is one complexity row attached to a catalog item.
type Operation struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Space string `json:"space"`
	Notes string `json:"notes,omitempty"`
}

// CatalogItem is one enumerable documentation subject: a builtin, a stdlib
// module, or a module member. The walk, audit, and scaffold operations all
// read from this table.
type CatalogItem struct {
	bun.BaseModel `bun:"table:catalog_items,alias:ci"`

	ID       uuid.UUID `bun:",pk,type:uuid"       json:"id"`
	FullName string    `bun:"full_name,notnull"   json:"full_name"`
	// SortKey is the lowercased full name; the walk orders by it.
	SortKey    string      `bun:"sort_key,notnull" json:"sort_key"`
	Kind       string      `bun:"kind,notnull"     json:"kind"`
	Origin     string      `bun:"origin,notnull"   json:"origin"`
	Category   string      `bun:"category"         json:"category,omitempty"`
	Module     string      `bun:"module"           json:"module,omitempty"`
	Summary    *string     `bun:"summary"          json:"summary,omitempty"`
	Contents   []string    `bun:"contents,type:jsonb"   json:"contents,omitempty"`
	Methods    []string    `bun:"methods,type:jsonb"    json:"methods,omitempty"`
	Attributes []string    `bun:"attributes,type:jsonb" json:"attributes,omitempty"`
	Operations []Operation `bun:"operations,type:jsonb" json:"operations,omitempty"`
	CreatedAt  time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// SummaryText returns the summary or an empty string.
func (i *CatalogItem) SummaryText() string {
	if i == nil || i.Summary == nil {
		return ""
	}
	return *i.Summary
}
