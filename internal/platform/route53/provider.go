// Package route53 implements the "route53" DNS provider. Record changes
// are staged per zone and submitted as a single change batch on Commit.
package route53

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	r53 "github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"gopkg.in/yaml.v3"
)

// ProviderName is the dns.provider value selecting this package.
const ProviderName = "route53"

const defaultRegion = "us-east-1"

// Args are the dns.args accepted by the route53 provider. Credentials fall
// back to the default AWS chain.
type Args struct {
	HostedZoneID    string `yaml:"hosted_zone_id"`
	Region          string `yaml:"region"`
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	TTL             int64  `yaml:"ttl"`
}

// route53API is the subset of the Route 53 client used here.
type route53API interface {
	ListHostedZonesByName(ctx context.Context, params *r53.ListHostedZonesByNameInput, optFns ...func(*r53.Options)) (*r53.ListHostedZonesByNameOutput, error)
	ListResourceRecordSets(ctx context.Context, params *r53.ListResourceRecordSetsInput, optFns ...func(*r53.Options)) (*r53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *r53.ChangeResourceRecordSetsInput, optFns ...func(*r53.Options)) (*r53.ChangeResourceRecordSetsOutput, error)
}

// Provider implements provider.DNSProvider on Route 53.
type Provider struct {
	api  route53API
	args Args

	mu      sync.Mutex
	zoneIDs map[string]string
	pending map[string][]r53types.Change
}

var _ provider.DNSProvider = (*Provider)(nil)

// NewProvider is the provider.DNSFactory for route53.
func NewProvider(node *yaml.Node, _ provider.Options) (provider.DNSProvider, error) {
	var args Args
	if err := config.DecodeArgs(node, &args); err != nil {
		return nil, err
	}
	if args.Region == "" {
		args.Region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(args.Region)}
	if args.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(args.Profile))
	}
	if args.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(args.AccessKeyID, args.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return newProvider(r53.NewFromConfig(cfg), args), nil
}

func newProvider(api route53API, args Args) *Provider {
	if args.TTL == 0 {
		args.TTL = 60
	}
	return &Provider{
		api:     api,
		args:    args,
		zoneIDs: make(map[string]string),
		pending: make(map[string][]r53types.Change),
	}
}

// hostedZoneID resolves and caches the hosted zone ID of a zone name.
func (p *Provider) hostedZoneID(ctx context.Context, zone string) (string, error) {
	if p.args.HostedZoneID != "" {
		return strings.TrimPrefix(p.args.HostedZoneID, "/hostedzone/"), nil
	}

	p.mu.Lock()
	id, ok := p.zoneIDs[zone]
	p.mu.Unlock()
	if ok {
		return id, nil
	}

	out, err := p.api.ListHostedZonesByName(ctx, &r53.ListHostedZonesByNameInput{
		DNSName:  aws.String(zone),
		MaxItems: aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up hosted zone %s: %w", zone, err)
	}
	if len(out.HostedZones) == 0 || fqdn(zone) != aws.ToString(out.HostedZones[0].Name) {
		return "", fmt.Errorf("no hosted zone found for %s", zone)
	}
	id = strings.TrimPrefix(aws.ToString(out.HostedZones[0].Id), "/hostedzone/")

	p.mu.Lock()
	p.zoneIDs[zone] = id
	p.mu.Unlock()
	return id, nil
}

// CreateRecord stages an UPSERT of an A record. It takes effect on Commit.
func (p *Provider) CreateRecord(ctx context.Context, subDomain, target, zone string) (*provider.DNSRecord, error) {
	if err := provider.ValidateIPv4(target); err != nil {
		return nil, err
	}
	if _, err := p.hostedZoneID(ctx, zone); err != nil {
		return nil, err
	}

	name := fqdn(subDomain + "." + zone)
	p.stage(zone, r53types.Change{
		Action: r53types.ChangeActionUpsert,
		ResourceRecordSet: &r53types.ResourceRecordSet{
			Name:            aws.String(name),
			Type:            r53types.RRTypeA,
			TTL:             aws.Int64(p.args.TTL),
			ResourceRecords: []r53types.ResourceRecord{{Value: aws.String(target)}},
		},
	})
	return &provider.DNSRecord{ID: name, SubDomain: subDomain, Target: target, Zone: zone}, nil
}

// ListRecords returns the A records of zone whose sub-domain ends with suffix.
func (p *Provider) ListRecords(ctx context.Context, suffix, zone string) ([]provider.DNSRecord, error) {
	zoneID, err := p.hostedZoneID(ctx, zone)
	if err != nil {
		return nil, err
	}

	zoneSuffix := "." + fqdn(zone)
	var out []provider.DNSRecord
	input := &r53.ListResourceRecordSetsInput{HostedZoneId: aws.String(zoneID)}
	for {
		page, err := p.api.ListResourceRecordSets(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list record sets: %w", err)
		}
		for _, set := range page.ResourceRecordSets {
			if set.Type != r53types.RRTypeA || len(set.ResourceRecords) == 0 {
				continue
			}
			name := aws.ToString(set.Name)
			sub, ok := strings.CutSuffix(name, zoneSuffix)
			if !ok || !strings.HasSuffix(sub, suffix) {
				continue
			}
			out = append(out, provider.DNSRecord{
				ID:        name,
				SubDomain: sub,
				Target:    aws.ToString(set.ResourceRecords[0].Value),
				Zone:      zone,
			})
		}
		if !page.IsTruncated {
			break
		}
		input = &r53.ListResourceRecordSetsInput{
			HostedZoneId:          aws.String(zoneID),
			StartRecordName:       page.NextRecordName,
			StartRecordType:       page.NextRecordType,
			StartRecordIdentifier: page.NextRecordIdentifier,
		}
	}
	return out, nil
}

// DeleteRecord stages the deletion of an A record. Route 53 requires the
// exact record set, so it is read back first. Missing records are ignored.
func (p *Provider) DeleteRecord(ctx context.Context, record provider.DNSRecord) error {
	zoneID, err := p.hostedZoneID(ctx, record.Zone)
	if err != nil {
		return err
	}

	name := fqdn(record.SubDomain + "." + record.Zone)
	page, err := p.api.ListResourceRecordSets(ctx, &r53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(zoneID),
		StartRecordName: aws.String(name),
		StartRecordType: r53types.RRTypeA,
		MaxItems:        aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to read record set %s: %w", name, err)
	}
	if len(page.ResourceRecordSets) == 0 {
		return nil
	}
	set := page.ResourceRecordSets[0]
	if aws.ToString(set.Name) != name || set.Type != r53types.RRTypeA {
		return nil
	}

	p.stage(record.Zone, r53types.Change{
		Action:            r53types.ChangeActionDelete,
		ResourceRecordSet: &set,
	})
	return nil
}

// Commit submits the staged changes of zone as one change batch.
func (p *Provider) Commit(ctx context.Context, zone string) error {
	p.mu.Lock()
	changes := p.pending[zone]
	delete(p.pending, zone)
	p.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}

	zoneID, err := p.hostedZoneID(ctx, zone)
	if err != nil {
		return err
	}
	_, err = p.api.ChangeResourceRecordSets(ctx, &r53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Comment: aws.String("hostparty"),
			Changes: changes,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to apply %d change(s) to %s: %w", len(changes), zone, err)
	}
	return nil
}

func (p *Provider) stage(zone string, change r53types.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[zone] = append(p.pending[zone], change)
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
