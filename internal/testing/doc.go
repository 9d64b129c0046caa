// Package testing provides test utilities, builders, and fixtures for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - ProviderFixture: Mock providers seeded with hosts of a namespace
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithNamespace("party").
//	    WithZone("example.com").
//	    Build()
//
//	fixture := testing.NewProviderFixture(cfg).
//	    WithHost("abcde", "1.2.3.4").
//	    WithOrphanedInstance("xyz12", "5.6.7.8")
package testing
