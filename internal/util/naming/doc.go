// Package naming provides consistent naming functions for hosts managed by hostparty.
//
// Every host is identified by a short label. Instances are named
// {namespace}-{label}, DNS records use the sub-domain {label}.{namespace}
// and the resulting fully qualified domain is {label}.{namespace}.{zone}.
// The inverse functions recover a label from a provider resource so that
// instances and records can be joined back together.
package naming
