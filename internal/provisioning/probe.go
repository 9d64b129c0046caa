package provisioning

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Prober checks whether a host answers.
type Prober interface {
	Probe(ctx context.Context, domain string) error
}

// HTTPProber probes http://<domain>. Any HTTP response counts as an answer,
// whatever its status code.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober whose single requests give up after timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	client := cleanhttp.DefaultClient()
	client.Timeout = timeout
	// Redirects to https would need a certificate that may not exist yet.
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &HTTPProber{client: client}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, domain string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+domain, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
