// Package middleware provides the HTTP middleware stack: request
// correlation, structured request logging, panic recovery and bearer
// token authentication.
package middleware
