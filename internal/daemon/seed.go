package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sitecms/sitecms/internal/config"
	userctl "github.com/sitecms/sitecms/internal/db/controller/user"
	"github.com/sitecms/sitecms/internal/db/models"
)

// defaultSettings is the initial site content. Seeding only fills keys
// that do not exist yet; edited values are never overwritten.
var defaultSettings = map[string]string{
	"site_name":        "CreativeMicroInk",
	"site_description": "Permanent makeup studio",
	"tagline":          "Permanent Makeup Studio",
	"logo_text":        "CreativeMicroInk",

	"hero_title":              "Enhance Your Natural Beauty",
	"hero_subtitle":           "Professional permanent makeup services with precision and artistry",
	"hero_cta_text":           "Book a Consultation",
	"hero_cta_secondary_text": "View Our Work",
	"hero_overlay_opacity":    "0.5",

	"about_title":       "About the Studio",
	"about_subtitle":    "Where artistry meets precision",
	"about_description": "We specialize in natural looking permanent makeup, from microblading to lip blush, tailored to every client.",

	"features_title":        "Why Choose Us",
	"features_subtitle":     "Certified artistry you can trust",
	"feature_1_title":       "Certified Artists",
	"feature_1_description": "Trained and certified in the latest permanent makeup techniques.",
	"feature_2_title":       "Premium Pigments",
	"feature_2_description": "Only skin safe, long lasting pigments from trusted suppliers.",
	"feature_3_title":       "Sterile Environment",
	"feature_3_description": "Hospital grade sterilization for every procedure.",

	"services_title":    "Our Services",
	"services_subtitle": "Microblading, powder brows, eyeliner and lip blush",
	"services_cta_text": "See All Services",

	"gallery_title":    "Our Work",
	"gallery_subtitle": "Real results from real clients",
	"gallery_cta_text": "View Gallery",

	"cta_title":       "Ready for Effortless Beauty?",
	"cta_subtitle":    "Book your free consultation today",
	"cta_button_text": "Get Started",

	"testimonials_title":    "What Clients Say",
	"testimonials_subtitle": "Stories from our studio",
	"testimonials":          "[]",

	"booking_title":     "Book an Appointment",
	"booking_subtitle":  "Consultations are free and without obligation",
	"booking_info_text": "Appointments are confirmed by email within one business day.",

	"contact_title":    "Get in Touch",
	"contact_subtitle": "We would love to hear from you",
	"contact_email":    "hello@creativemicroink.com",

	"footer_tagline":   "Beauty that lasts",
	"footer_copyright": "CreativeMicroInk. All rights reserved.",

	"meta_title":       "CreativeMicroInk | Permanent Makeup Studio",
	"meta_description": "Professional permanent makeup: microblading, powder brows, eyeliner and lip blush.",
}

// seed fills the initial admin account and default site content. Both
// are insert-only: existing rows are left untouched.
func seed(cfg *config.Config, db *gorm.DB) {
	seedAdmin(cfg, db)
	seedSettings(db)
}

func seedAdmin(cfg *config.Config, db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)

	if count > 0 {
		return
	}

	if cfg.Auth.SeedAdminEmail == "" || cfg.Auth.SeedAdminPassword == "" {
		log.Warn().Msg("users table is empty and no seed admin configured: no one can log in")
		return
	}

	_, err := userctl.Create(
		db,
		cfg.Auth.SeedAdminEmail,
		cfg.Auth.SeedAdminPassword,
		cfg.Auth.SeedAdminName,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	log.Info().Str("email", cfg.Auth.SeedAdminEmail).Msg("seeded initial admin user")
}

func seedSettings(db *gorm.DB) {
	var existing []models.Setting

	if err := db.Select("key").Find(&existing).Error; err != nil {
		log.Error().Err(err).Msg("failed to read existing settings for seeding")
		return
	}

	present := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		present[row.Key] = struct{}{}
	}

	seeded := 0

	for key, value := range defaultSettings {
		if _, ok := present[key]; ok {
			continue
		}

		if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to seed setting")
			continue
		}

		seeded++
	}

	if seeded > 0 {
		log.Info().Int("count", seeded).Msg("seeded default settings")
	}
}
