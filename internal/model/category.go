// Package model defines the ledger's core entities.
package model

import "time"

// Category is a node in the two-level category tree. A root category has no
// parent; a subcategory's ParentID names a root. The tree never nests deeper.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	ParentID  *int64
	ID        int64
	Color     int64
	IsDefault bool
}

// IsRoot reports whether the category is a top-level category.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
