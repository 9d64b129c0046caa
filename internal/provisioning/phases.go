package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hostparty/hostparty/internal/provider"

	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	phaseInstance     = "instance"
	phaseDNS          = "dns"
	phaseConnectivity = "connectivity"
)

// instancePhase creates the instance and waits until the provider reports it active.
type instancePhase struct {
	bootScript string
}

func (p *instancePhase) Name() string { return phaseInstance }

func (p *instancePhase) Provision(ctx *Context) error {
	host := ctx.Host
	LogResourceCreating(ctx.Observer, phaseInstance, "instance", host.InstanceName)

	created, err := ctx.Instances.CreateInstance(ctx, host.InstanceName, p.bootScript)
	if err != nil {
		return fmt.Errorf("failed to create instance %s: %w", host.InstanceName, err)
	}

	instance, err := waitForActive(ctx, created)
	if err != nil {
		return err
	}
	host.Instance = instance

	if err := ctx.Instances.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit instance %s: %w", host.InstanceName, err)
	}

	LogResourceCreated(ctx.Observer, phaseInstance, "instance", host.InstanceName, instance.ID)
	ctx.Observer.Printf("Host is active, IPv4 address is %s", instance.IPAddress)
	return nil
}

// waitForActive polls GetInstance until the instance is active or errored,
// bounded by the instance-active timeout.
func waitForActive(ctx *Context, created *provider.Instance) (*provider.Instance, error) {
	if created.Status == provider.StatusActive && created.IPAddress != "" {
		return created, nil
	}

	timeout := ctx.Timeouts.InstanceActive
	var current *provider.Instance
	err := wait.PollUntilContextTimeout(ctx, ctx.Timeouts.PollInterval, timeout, false,
		func(pollCtx context.Context) (bool, error) {
			inst, err := ctx.Instances.GetInstance(pollCtx, created.ID)
			if err != nil {
				ctx.Observer.Printf("Could not get instance %s status, retrying: %v", created.Name, err)
				return false, nil
			}
			current = inst
			switch inst.Status {
			case provider.StatusActive:
				return true, nil
			case provider.StatusError:
				return false, &InstanceCreationError{
					Instance: created.Name,
					Reason:   "provider reported the error state",
				}
			default:
				return false, nil
			}
		})
	if err != nil {
		var ice *InstanceCreationError
		if errors.As(err, &ice) {
			return nil, ice
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("waiting for instance %s: %w", created.Name, ctx.Err())
		}
		status := created.Status
		if current != nil {
			status = current.Status
		}
		return nil, &InstanceCreationError{
			Instance: created.Name,
			Reason:   fmt.Sprintf("still %s after %v", status, timeout),
			Err:      err,
		}
	}
	return current, nil
}

// dnsPhase points the host's sub-domain at the instance address.
type dnsPhase struct{}

func (p *dnsPhase) Name() string { return phaseDNS }

func (p *dnsPhase) Provision(ctx *Context) error {
	host := ctx.Host
	zone := ctx.Config.DNS.Zone
	if host.Instance == nil {
		return fmt.Errorf("no instance for %s", host.Label)
	}
	if err := provider.ValidateIPv4(host.Instance.IPAddress); err != nil {
		return fmt.Errorf("instance %s has no usable address: %w", host.InstanceName, err)
	}

	LogResourceCreating(ctx.Observer, phaseDNS, "record", host.SubDomain)
	record, err := ctx.DNS.CreateRecord(ctx, host.SubDomain, host.Instance.IPAddress, zone)
	if err != nil {
		return fmt.Errorf("failed to create record %s: %w", host.SubDomain, err)
	}
	if err := ctx.DNS.Commit(ctx, zone); err != nil {
		return fmt.Errorf("failed to apply dns changes for %s: %w", host.SubDomain, err)
	}
	host.Record = record

	LogResourceCreated(ctx.Observer, phaseDNS, "record", record.FQDN(), record.ID)
	if record.FQDN() != host.Domain {
		ctx.Observer.Printf("Created DNS record %s differs from the expected domain %s", record.FQDN(), host.Domain)
	}
	return nil
}

// connectivityPhase waits for the boot script to bring up the web server,
// which it does last.
type connectivityPhase struct {
	prober Prober
}

func (p *connectivityPhase) Name() string { return phaseConnectivity }

func (p *connectivityPhase) Provision(ctx *Context) error {
	domain := ctx.Host.Domain
	timeout := ctx.Config.General.ConnectivityCheckTimeout.Std()
	ctx.Observer.Printf("Waiting for post-creation script to finish...")

	var lastErr error
	attempts := 0
	start := time.Now()
	err := wait.PollUntilContextTimeout(ctx, ctx.Timeouts.PollInterval, timeout, false,
		func(pollCtx context.Context) (bool, error) {
			attempts++
			if err := p.prober.Probe(pollCtx, domain); err != nil {
				lastErr = err
				return false, nil
			}
			return true, nil
		})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("waiting for %s: %w", domain, ctx.Err())
		}
		if lastErr == nil {
			lastErr = err
		}
		return &ConnectivityCheckError{Domain: domain, Timeout: timeout, Err: lastErr}
	}

	ctx.Observer.Printf("%s answered after %d attempts (%v)", domain, attempts, time.Since(start).Round(time.Second))
	return nil
}
