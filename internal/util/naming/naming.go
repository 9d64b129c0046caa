package naming

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// LabelLength is the length of generated labels.
const LabelLength = 5

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// labelRegex matches a single DNS label (RFC 1123, lowercase only).
var labelRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

func Instance(namespace, label string) string {
	return fmt.Sprintf("%s-%s", namespace, label)
}

func SubDomain(label, namespace string) string {
	return fmt.Sprintf("%s.%s", label, namespace)
}

func Domain(label, namespace, zone string) string {
	return fmt.Sprintf("%s.%s.%s", label, namespace, zone)
}

// InstancePrefix is the prefix shared by every instance in the namespace.
func InstancePrefix(namespace string) string {
	return namespace + "-"
}

// SubDomainSuffix is the suffix shared by every record sub-domain in the namespace.
func SubDomainSuffix(namespace string) string {
	return "." + namespace
}

// LabelFromInstance strips the namespace prefix from an instance name.
// It reports false if the name does not belong to the namespace.
func LabelFromInstance(namespace, name string) (string, bool) {
	label, ok := strings.CutPrefix(name, InstancePrefix(namespace))
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// LabelFromSubDomain strips the namespace suffix from a record sub-domain.
// It reports false if the sub-domain does not belong to the namespace.
func LabelFromSubDomain(namespace, subDomain string) (string, bool) {
	label, ok := strings.CutSuffix(subDomain, SubDomainSuffix(namespace))
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// RandomLabel returns LabelLength lowercase ASCII letters drawn uniformly.
func RandomLabel() string {
	var b strings.Builder
	b.Grow(LabelLength)
	for range LabelLength {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// ValidateLabel checks that label can be used as a DNS label.
func ValidateLabel(label string) error {
	if !labelRegex.MatchString(label) {
		return fmt.Errorf("invalid name %q: must be 1-63 lowercase alphanumeric characters or hyphens, starting and ending with an alphanumeric character", label)
	}
	return nil
}
