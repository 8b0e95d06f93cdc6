package config

import (
	"github.com/sitecms/sitecms/internal/logger"
)

// Auth holds token issuing settings.
type Auth struct {
	// JWTSecret signs bearer tokens. Auth endpoints are unusable without it.
	JWTSecret string
	// TokenTTLDays is the bearer token lifetime in days.
	TokenTTLDays int
	// SeedAdminEmail and SeedAdminPassword create the initial admin
	// account when the users table is empty.
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

// Storage holds object storage (S3 compatible) settings for image uploads.
type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides the URL prefix for stored objects, for
	// serving uploads through a CDN. Empty means the endpoint is used.
	PublicBaseURL string
	// Folder prefixes every uploaded object key.
	Folder string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Auth      Auth
	Storage   Storage
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}
