// Package destroy handles teardown of listed hosts.
//
// The namespace is listed through internal/inventory, narrowed down by a
// Selection, and each selected entry loses its instance and its DNS record.
// Individual failures are logged and skipped. DNS changes are applied with
// a single commit at the end, and a dry run issues no destructive call.
package destroy
