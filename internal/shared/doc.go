// Package shared provides common utilities and test helpers used across
// the codebase. It serves as a central location for functionality that
// doesn't belong to any specific domain package.
//
// The testutil subpackage provides a buffered slog handler for asserting
// on log output, along with helpers for building test loggers.
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain business logic or circular dependencies with
// other internal packages.
package shared
