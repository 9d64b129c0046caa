// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, resolves the configured providers
// from the registry and drives the provisioning, inventory or destroy
// packages. Collaborators are created through package-level factory
// variables so tests can replace them.
package handlers
