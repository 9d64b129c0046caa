// Package inventory joins the instances and DNS records of a namespace into
// entries keyed by label, and classifies them as complete or orphaned.
package inventory
