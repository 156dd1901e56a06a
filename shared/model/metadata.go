package model

import "time"

// Metadata is the audit block every table carries.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps a row created by actor at the given instant.
func NewMetadata(actor string, at time.Time) Metadata {
	return Metadata{CreatedAt: at, ModifiedAt: at, CreatedBy: actor, ModifiedBy: actor}
}
