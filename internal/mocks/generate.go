// Package mocks provides mock implementations for testing the session
// subsystem.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe
// mocks for the ports interfaces. Hand-written lightweight doubles
// live in the session subpackage; prefer those for simple unit tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for the AuthAPI interface from internal/ports. The
// durable-store ports are simple enough that the hand doubles in the
// session subpackage cover them.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_api_mock.go github.com/oressource/auth-client-go/internal/ports AuthAPI
