// Package main provides the entry point for the sitecms application.
// It runs a Fiber based web server backing the CreativeMicroInk studio
// site: settings driven page content with a public/admin visibility
// split, JWT authenticated editing, and image uploads to S3 compatible
// object storage. Data persistence uses gorm.
package main
