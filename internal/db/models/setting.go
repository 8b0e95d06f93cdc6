// Package models contains database model definitions.
package models

import "time"

// Setting represents one piece of editable site content stored as a
// key-value row. Values are opaque strings; some keys hold JSON blobs
// (testimonials, business hours) that are parsed at the consuming edge.
type Setting struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
