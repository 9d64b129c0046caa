// Package hcloud implements the "hcloud" instance provider on top of the
// Hetzner Cloud API client, adding retry logic, timeout management, and
// error classification.
//
// # Architecture
//
//   - client.go: provider arguments, client construction, and options
//   - server.go: instance lifecycle (create, get, list, delete)
//   - server_helpers.go: create option resolution (server type, image, location, SSH keys)
//   - operations.go: generic retried delete operation
//   - errors.go: error classification for retry logic
//
// # Status mapping
//
// Hetzner server states are mapped to provider statuses: "running" is
// active, "initializing" and "starting" are building, and a failed create
// action turns the instance into error. Other states are passed through
// unchanged so callers keep polling.
//
// # Retry and Timeout Configuration
//
// Timeouts and retry parameters come from config.LoadTimeouts:
//
//   - HOSTPARTY_TIMEOUT_SERVER_CREATE: create call timeout, retries included (default: 5m)
//   - HOSTPARTY_TIMEOUT_DELETE: deletion timeout (default: 5m)
//   - HOSTPARTY_RETRY_MAX_ATTEMPTS: maximum retry attempts (default: 5)
//   - HOSTPARTY_RETRY_INITIAL_DELAY: initial retry delay (default: 1s)
package hcloud
