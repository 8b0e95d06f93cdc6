package settings

// DefaultPublicKeys lists the setting keys anonymous visitors may read.
// Any key not listed here is admin only. The set built from this list is
// the single enforcement point for both the collection and single-key
// read paths.
var DefaultPublicKeys = []string{
	// Site basics
	"site_name",
	"site_description",
	"contact_email",
	"contact_phone",
	"address",
	"business_hours",
	"social_facebook",
	"social_instagram",
	"social_twitter",
	// Hero section
	"hero_image",
	"hero_title",
	"hero_subtitle",
	"hero_cta_text",
	"hero_cta_secondary_text",
	"hero_overlay_opacity",
	// About section
	"about_title",
	"about_subtitle",
	"about_description",
	"about_image",
	"about_credentials",
	"about_text",
	// Features section
	"features_title",
	"features_subtitle",
	"feature_1_icon",
	"feature_1_title",
	"feature_1_description",
	"feature_2_icon",
	"feature_2_title",
	"feature_2_description",
	"feature_3_icon",
	"feature_3_title",
	"feature_3_description",
	// Services section
	"services_title",
	"services_subtitle",
	"services_cta_text",
	// Gallery section
	"gallery_title",
	"gallery_subtitle",
	"gallery_cta_text",
	// CTA section
	"cta_title",
	"cta_subtitle",
	"cta_button_text",
	"cta_background_image",
	// Testimonials section
	"testimonials_title",
	"testimonials_subtitle",
	"testimonials",
	// Footer
	"footer_tagline",
	"footer_copyright",
	// Branding
	"logo_text",
	"logo_image",
	"tagline",
	// Booking
	"booking_title",
	"booking_subtitle",
	"booking_info_text",
	// Contact
	"contact_title",
	"contact_subtitle",
	// SEO
	"meta_title",
	"meta_description",
	"meta_keywords",
}

// PublicSet is the immutable set of setting keys visible to anonymous
// visitors. It is constructed once at process start and injected into
// every read path, so the list filter and the single-key filter cannot
// diverge.
type PublicSet struct {
	keys    map[string]struct{}
	ordered []string
}

// NewPublicSet builds a PublicSet from a list of keys.
func NewPublicSet(keys []string) PublicSet {
	set := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))

	for _, key := range keys {
		if _, dup := set[key]; dup {
			continue
		}

		set[key] = struct{}{}
		ordered = append(ordered, key)
	}

	return PublicSet{keys: set, ordered: ordered}
}

// Contains reports whether the key is readable anonymously.
func (s PublicSet) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Keys returns the member keys in their declaration order. The returned
// slice is a copy.
func (s PublicSet) Keys() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)

	return out
}

// Len returns the number of keys in the set.
func (s PublicSet) Len() int {
	return len(s.keys)
}
