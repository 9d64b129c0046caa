package provisioning

import (
	"fmt"
	"strings"
	"time"

	"github.com/hostparty/hostparty/internal/util/naming"
)

// Creator runs the host creation workflow.
type Creator struct {
	template string
	prober   Prober
	newLabel func() string
}

// CreatorOption configures a Creator.
type CreatorOption func(*Creator)

// WithBootTemplate replaces the embedded boot script template.
func WithBootTemplate(tmpl string) CreatorOption {
	return func(c *Creator) {
		if tmpl != "" {
			c.template = tmpl
		}
	}
}

// WithProber replaces the HTTP connectivity prober.
func WithProber(p Prober) CreatorOption {
	return func(c *Creator) {
		c.prober = p
	}
}

// WithLabelGenerator replaces the random label generator used by batches.
func WithLabelGenerator(fn func() string) CreatorOption {
	return func(c *Creator) {
		c.newLabel = fn
	}
}

// NewCreator creates a Creator.
func NewCreator(opts ...CreatorOption) *Creator {
	c := &Creator{
		template: defaultBootTemplate,
		newLabel: naming.RandomLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateServer creates the instance for label, attaches its DNS record and
// waits until the host answers over HTTP. It returns the host's domain.
func (c *Creator) CreateServer(ctx *Context, label, postInstallScript string) (string, error) {
	start := time.Now()
	hctx := ctx.ForHost(label)
	host := hctx.Host

	hctx.Observer.Printf("Provisioning server %s (expected domain name %s)", label, host.Domain)

	domain, err := c.createServer(hctx, postInstallScript)
	if err != nil {
		ctx.Metrics.HostCreated(OutcomeFailure, time.Since(start))
		return "", err
	}

	ctx.Metrics.HostCreated(OutcomeSuccess, time.Since(start))
	hctx.Observer.Printf("Done!")
	return domain, nil
}

func (c *Creator) createServer(ctx *Context, postInstallScript string) (string, error) {
	data, err := bootScriptData(ctx, postInstallScript)
	if err != nil {
		return "", err
	}
	bootScript, err := RenderBootScript(c.template, data)
	if err != nil {
		return "", err
	}

	prober := c.prober
	if prober == nil {
		prober = NewHTTPProber(ctx.Timeouts.ProbeTimeout)
	}

	phases := []Phase{
		&instancePhase{bootScript: bootScript},
		&dnsPhase{},
		&connectivityPhase{prober: prober},
	}
	if err := RunPhases(ctx, phases); err != nil {
		return "", err
	}
	return ctx.Host.Domain, nil
}

// maxLabelAttempts bounds how often a batch draws a label before giving up
// on a host.
const maxLabelAttempts = 100

// HostFailure records a host of a batch that could not be created.
type HostFailure struct {
	Label string
	Err   error
}

// BatchResult is the outcome of CreateBatch.
type BatchResult struct {
	Requested int
	Domains   []string
	Failures  []HostFailure
}

// Summary renders the end-of-batch report.
func (r *BatchResult) Summary() string {
	created := len(r.Domains)
	if created == 0 {
		return "All servers have failed to create."
	}

	var b strings.Builder
	if created == r.Requested {
		b.WriteString("All servers have been created:")
	} else {
		fmt.Fprintf(&b, "%d servers over %d have been created:", created, r.Requested)
	}
	for _, domain := range r.Domains {
		b.WriteString("\n\t- ")
		b.WriteString(domain)
	}
	return b.String()
}

// CreateBatch creates n hosts with random labels, one after the other.
// A failed host is logged and counted; the batch carries on. Cancelling
// ctx stops the batch before the next host.
func (c *Creator) CreateBatch(ctx *Context, n int, postInstallScript string) *BatchResult {
	result := &BatchResult{Requested: n}
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			ctx.Observer.Printf("Batch interrupted after %d of %d servers: %v", i, n, ctx.Err())
			break
		}

		label, ok := c.uniqueLabel(seen)
		if !ok {
			err := fmt.Errorf("no unused label after %d attempts, last was %s", maxLabelAttempts, label)
			ctx.Observer.Printf("An error happened while creating the server, skipping: %v", err)
			result.Failures = append(result.Failures, HostFailure{Label: label, Err: err})
			continue
		}

		ctx.Observer.Progress("batch", i+1, n)
		domain, err := c.CreateServer(ctx, label, postInstallScript)
		if err != nil {
			ctx.Observer.Printf("An error happened while creating the server, skipping: %v", err)
			result.Failures = append(result.Failures, HostFailure{Label: label, Err: err})
			continue
		}
		result.Domains = append(result.Domains, domain)
	}
	return result
}

// uniqueLabel draws labels until one is not in seen, and marks it.
func (c *Creator) uniqueLabel(seen map[string]bool) (string, bool) {
	var label string
	for range maxLabelAttempts {
		label = c.newLabel()
		if !seen[label] {
			seen[label] = true
			return label, true
		}
	}
	return label, false
}
