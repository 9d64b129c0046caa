// Package ovh implements the "ovh" DNS provider on the OVHcloud domain zone
// API. Record changes only become visible once the zone is refreshed, which
// Commit does.
package ovh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"

	"github.com/ovh/go-ovh/ovh"
	"gopkg.in/yaml.v3"
)

// ProviderName is the dns.provider value selecting this package.
const ProviderName = "ovh"

// Args are the dns.args accepted by the ovh provider. Empty values fall
// back to the OVH_* environment variables.
type Args struct {
	Endpoint          string `yaml:"endpoint"`
	ApplicationKey    string `yaml:"application_key"`
	ApplicationSecret string `yaml:"application_secret"`
	ConsumerKey       string `yaml:"consumer_key"`
	TTL               int    `yaml:"ttl"`
}

// record is the OVH zone record resource.
type record struct {
	ID        int64  `json:"id,omitempty"`
	FieldType string `json:"fieldType"`
	SubDomain string `json:"subDomain"`
	Target    string `json:"target"`
	Zone      string `json:"zone,omitempty"`
	TTL       int    `json:"ttl,omitempty"`
}

// ovhAPI is the subset of the go-ovh client used here.
type ovhAPI interface {
	GetWithContext(ctx context.Context, url string, resType interface{}) error
	PostWithContext(ctx context.Context, url string, reqBody, resType interface{}) error
	DeleteWithContext(ctx context.Context, url string, resType interface{}) error
}

// Provider implements provider.DNSProvider on OVHcloud.
type Provider struct {
	api ovhAPI
	ttl int
}

var _ provider.DNSProvider = (*Provider)(nil)

// NewProvider is the provider.DNSFactory for ovh.
func NewProvider(node *yaml.Node, _ provider.Options) (provider.DNSProvider, error) {
	var args Args
	if err := config.DecodeArgs(node, &args); err != nil {
		return nil, err
	}
	args = withEnvDefaults(args)

	client, err := ovh.NewClient(args.Endpoint, args.ApplicationKey, args.ApplicationSecret, args.ConsumerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ovh client: %w", err)
	}
	return newProvider(client, args.TTL), nil
}

func withEnvDefaults(args Args) Args {
	fallback := func(v *string, env string) {
		if *v == "" {
			*v = os.Getenv(env)
		}
	}
	fallback(&args.Endpoint, "OVH_ENDPOINT")
	fallback(&args.ApplicationKey, "OVH_APPLICATION_KEY")
	fallback(&args.ApplicationSecret, "OVH_APPLICATION_SECRET")
	fallback(&args.ConsumerKey, "OVH_CONSUMER_KEY")
	if args.Endpoint == "" {
		args.Endpoint = ovh.OvhEU
	}
	return args
}

func newProvider(api ovhAPI, ttl int) *Provider {
	return &Provider{api: api, ttl: ttl}
}

func recordsPath(zone string) string {
	return "/domain/zone/" + url.PathEscape(zone) + "/record"
}

// CreateRecord creates an A record. It is served once the zone is refreshed.
func (p *Provider) CreateRecord(ctx context.Context, subDomain, target, zone string) (*provider.DNSRecord, error) {
	if err := provider.ValidateIPv4(target); err != nil {
		return nil, err
	}

	var created record
	err := p.api.PostWithContext(ctx, recordsPath(zone), record{
		FieldType: "A",
		SubDomain: subDomain,
		Target:    target,
		TTL:       p.ttl,
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to create record %s.%s: %w", subDomain, zone, err)
	}
	return toDNSRecord(created, zone), nil
}

// ListRecords returns the A records of zone whose sub-domain ends with suffix.
func (p *Provider) ListRecords(ctx context.Context, suffix, zone string) ([]provider.DNSRecord, error) {
	// %25 is an escaped "%", the API's wildcard.
	query := fmt.Sprintf("%s?fieldType=A&subDomain=%%25%s", recordsPath(zone), url.QueryEscape(suffix))

	var ids []int64
	if err := p.api.GetWithContext(ctx, query, &ids); err != nil {
		return nil, fmt.Errorf("failed to list records of %s: %w", zone, err)
	}

	out := make([]provider.DNSRecord, 0, len(ids))
	for _, id := range ids {
		var rec record
		if err := p.api.GetWithContext(ctx, fmt.Sprintf("%s/%d", recordsPath(zone), id), &rec); err != nil {
			return nil, fmt.Errorf("failed to get record %d: %w", id, err)
		}
		if !strings.HasSuffix(rec.SubDomain, suffix) {
			continue
		}
		out = append(out, *toDNSRecord(rec, zone))
	}
	return out, nil
}

// DeleteRecord deletes a record by ID. Already deleted records are ignored.
func (p *Provider) DeleteRecord(ctx context.Context, rec provider.DNSRecord) error {
	err := p.api.DeleteWithContext(ctx, recordsPath(rec.Zone)+"/"+rec.ID, nil)
	if err != nil {
		var apiErr *ovh.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete record %s: %w", rec.ID, err)
	}
	return nil
}

// Commit refreshes the zone so staged record changes are served.
func (p *Provider) Commit(ctx context.Context, zone string) error {
	if err := p.api.PostWithContext(ctx, "/domain/zone/"+url.PathEscape(zone)+"/refresh", nil, nil); err != nil {
		return fmt.Errorf("failed to refresh zone %s: %w", zone, err)
	}
	return nil
}

func toDNSRecord(rec record, zone string) *provider.DNSRecord {
	if rec.Zone != "" {
		zone = rec.Zone
	}
	return &provider.DNSRecord{
		ID:        fmt.Sprintf("%d", rec.ID),
		SubDomain: rec.SubDomain,
		Target:    rec.Target,
		Zone:      zone,
	}
}
