// Package auth gates HTTP requests as anonymous, optionally
// authenticated, or required authenticated based on the bearer token in
// the Authorization header. Both modes are stateless per request and
// never log credentials.
package auth
