// Package config defines the configuration model shared by every hostparty
// command.
//
// The [Config] struct is loaded from a YAML file (see [LoadFile]) and names
// the namespace that scopes managed resources, the DNS zone, the selected
// instance and DNS providers with their provider-specific arguments, and the
// variables interpolated into the boot script. Provider arguments stay as raw
// YAML nodes until the selected provider decodes them with [DecodeArgs].
//
// Operational timeouts are not part of the file; they are read from the
// environment by [LoadTimeouts].
package config
