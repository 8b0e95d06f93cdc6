package client

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Some settings store structured content as a JSON string. The helpers
// here parse those values into their expected shapes with an explicit
// error instead of a silent empty fallback; the store itself stays
// untyped.

// TestimonialsKey is the setting holding the testimonials list.
const TestimonialsKey = "testimonials"

// Testimonial is one client quote shown on the site.
type Testimonial struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating,omitempty"`
}

// ParseSetting decodes a JSON encoded setting value into T.
func ParseSetting[T any](key, raw string) (T, error) {
	var out T

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, errors.Wrapf(ErrMalformedValue, "setting %q: %v", key, err)
	}

	return out, nil
}

// ParseTestimonials decodes the testimonials setting value.
func ParseTestimonials(raw string) ([]Testimonial, error) {
	return ParseSetting[[]Testimonial](TestimonialsKey, raw)
}

// Testimonials returns the cached testimonials list. A value that does
// not parse is an error, never silently an empty list.
func (c *Client) Testimonials() ([]Testimonial, error) {
	return ParseTestimonials(c.Get(TestimonialsKey, "[]"))
}
