package cloudflare

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"

	"gopkg.in/yaml.v3"
)

// ProviderName is the dns.provider value selecting this package.
const ProviderName = "cloudflare"

const recordComment = "managed by hostparty"

// Args are the dns.args accepted by the cloudflare provider.
type Args struct {
	// APIToken defaults to $CLOUDFLARE_API_TOKEN.
	APIToken string `yaml:"api_token"`
	// ZoneID skips the zone lookup by name.
	ZoneID string `yaml:"zone_id"`
	TTL    int    `yaml:"ttl"`
}

// Provider adapts Client to provider.DNSProvider.
type Provider struct {
	client *Client
	args   Args

	mu    sync.Mutex
	zones map[string]string
}

var _ provider.DNSProvider = (*Provider)(nil)

// NewProvider is the provider.DNSFactory for cloudflare.
func NewProvider(node *yaml.Node, _ provider.Options) (provider.DNSProvider, error) {
	var args Args
	if err := config.DecodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.APIToken == "" {
		args.APIToken = os.Getenv("CLOUDFLARE_API_TOKEN")
	}
	if args.APIToken == "" {
		return nil, fmt.Errorf("cloudflare api token is required (dns.args.api_token or CLOUDFLARE_API_TOKEN)")
	}
	return newProvider(NewClient(args.APIToken), args), nil
}

func newProvider(client *Client, args Args) *Provider {
	if args.TTL == 0 {
		args.TTL = 60
	}
	return &Provider{client: client, args: args, zones: make(map[string]string)}
}

// zoneID resolves and caches the Cloudflare zone ID of a zone name.
func (p *Provider) zoneID(ctx context.Context, zone string) (string, error) {
	if p.args.ZoneID != "" {
		return p.args.ZoneID, nil
	}

	p.mu.Lock()
	id, ok := p.zones[zone]
	p.mu.Unlock()
	if ok {
		return id, nil
	}

	id, err := p.client.GetZoneID(ctx, zone)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.zones[zone] = id
	p.mu.Unlock()
	return id, nil
}

// CreateRecord creates an unproxied A record for subDomain in zone.
func (p *Provider) CreateRecord(ctx context.Context, subDomain, target, zone string) (*provider.DNSRecord, error) {
	if err := provider.ValidateIPv4(target); err != nil {
		return nil, err
	}
	zoneID, err := p.zoneID(ctx, zone)
	if err != nil {
		return nil, err
	}

	created, err := p.client.CreateDNSRecord(ctx, zoneID, Record{
		Type:    "A",
		Name:    subDomain + "." + zone,
		Content: target,
		TTL:     p.args.TTL,
		Comment: recordComment,
	})
	if err != nil {
		return nil, err
	}
	return &provider.DNSRecord{ID: created.ID, SubDomain: subDomain, Target: created.Content, Zone: zone}, nil
}

// ListRecords returns the A records of zone whose sub-domain ends with suffix.
func (p *Provider) ListRecords(ctx context.Context, suffix, zone string) ([]provider.DNSRecord, error) {
	zoneID, err := p.zoneID(ctx, zone)
	if err != nil {
		return nil, err
	}
	records, err := p.client.ListDNSRecords(ctx, zoneID, "A")
	if err != nil {
		return nil, err
	}

	zoneSuffix := "." + zone
	var out []provider.DNSRecord
	for _, r := range records {
		if r.Type != "A" {
			continue
		}
		sub, ok := strings.CutSuffix(r.Name, zoneSuffix)
		if !ok || !strings.HasSuffix(sub, suffix) {
			continue
		}
		out = append(out, provider.DNSRecord{ID: r.ID, SubDomain: sub, Target: r.Content, Zone: zone})
	}
	return out, nil
}

// DeleteRecord deletes a record by ID.
func (p *Provider) DeleteRecord(ctx context.Context, record provider.DNSRecord) error {
	zoneID, err := p.zoneID(ctx, record.Zone)
	if err != nil {
		return err
	}
	return p.client.DeleteDNSRecord(ctx, zoneID, record.ID)
}

// Commit is a no-op: Cloudflare applies record changes immediately.
func (p *Provider) Commit(_ context.Context, _ string) error {
	return nil
}
