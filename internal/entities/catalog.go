package entities

import "time"

// Reference rows edited administratively: roles, categories, article
// states, loan states. States additionally carry a stable code that the
// service layer resolves through pkg/constants.
type CatalogItem struct {
	ID        uint64
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
