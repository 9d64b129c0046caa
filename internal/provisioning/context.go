package provisioning

import (
	"context"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/naming"
)

// Host holds the shared results of the phases creating one host.
// It is progressively populated as each phase completes.
type Host struct {
	Label        string
	InstanceName string
	SubDomain    string
	Domain       string // expected fully qualified domain name

	Instance *provider.Instance  // populated by the instance phase
	Record   *provider.DNSRecord // populated by the dns phase
}

// NewHost derives the names of the host identified by label.
func NewHost(cfg *config.Config, label string) *Host {
	ns := cfg.General.Namespace
	return &Host{
		Label:        label,
		InstanceName: naming.Instance(ns, label),
		SubDomain:    naming.SubDomain(label, ns),
		Domain:       naming.Domain(label, ns, cfg.DNS.Zone),
	}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config    *config.Config
	Host      *Host
	Instances provider.InstanceProvider
	DNS       provider.DNSProvider
	Observer  Observer
	Metrics   MetricsRecorder
	Timeouts  *config.Timeouts
}

// NewContext creates a new provisioning context. A nil observer falls back
// to the console observer.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	instances provider.InstanceProvider,
	dns provider.DNSProvider,
	observer Observer,
) *Context {
	if observer == nil {
		observer = NewConsoleObserver()
	}
	return &Context{
		Context:   ctx,
		Config:    cfg,
		Instances: instances,
		DNS:       dns,
		Observer:  observer,
		Metrics:   nopRecorder{},
		Timeouts:  config.LoadTimeouts(),
	}
}

// ForHost returns a copy of the context bound to a fresh Host for label,
// with an observer tagged with the label.
func (c *Context) ForHost(label string) *Context {
	host := NewHost(c.Config, label)
	cp := *c
	cp.Host = host
	cp.Observer = c.Observer.WithFields(map[string]string{"host": label})
	return &cp
}
