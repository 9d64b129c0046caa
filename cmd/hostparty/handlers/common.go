package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/metrics"
	"github.com/hostparty/hostparty/internal/platform"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/provisioning"
	"github.com/hostparty/hostparty/internal/util/retry"

	"github.com/rs/xid"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Globals holds the persistent flags.
type Globals struct {
	ConfigPath string
	LogFormat  string
}

// Factory function variables shared by the handlers - can be replaced in tests.
var (
	// loadConfig loads and validates the configuration file.
	loadConfig = config.LoadFile

	// newRegistry returns the provider registry.
	newRegistry = platform.DefaultRegistry

	// newRunID returns the identifier attached to every log line of a run.
	newRunID = func() string { return xid.New().String() }

	// newRecorder creates the metrics recorder.
	newRecorder = metrics.NewRecorder

	// logOutput is where observers write.
	logOutput io.Writer = os.Stderr

	// stdout is where command results are printed.
	stdout io.Writer = os.Stdout
)

// newObserver builds the observer for the requested log format.
func newObserver(format string, w io.Writer) (provisioning.Observer, error) {
	switch format {
	case "", LogFormatText:
		return provisioning.NewConsoleObserverTo(w), nil
	case LogFormatJSON:
		return provisioning.NewJSONObserver(w), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected %s or %s)", format, LogFormatText, LogFormatJSON)
	}
}

// session is everything a command needs once the configuration is loaded.
type session struct {
	cfg      *config.Config
	pctx     *provisioning.Context
	recorder *metrics.Recorder
	command  string
}

// openSession loads the configuration and resolves both providers. Unknown
// provider names fail here, before any API call.
func openSession(ctx context.Context, g Globals, command string) (*session, error) {
	observer, err := newObserver(g.LogFormat, logOutput)
	if err != nil {
		return nil, err
	}
	observer = observer.WithFields(map[string]string{"run": newRunID(), "command": command})

	path := config.ResolvePath(g.ConfigPath)
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	registry := newRegistry()
	opts := provider.Options{Namespace: cfg.General.Namespace}

	instances, err := registry.Instances(cfg.Instances.Provider, &cfg.Instances.Args, opts)
	if err != nil {
		return nil, err
	}
	dns, err := registry.DNS(cfg.DNS.Provider, &cfg.DNS.Args, opts)
	if err != nil {
		return nil, err
	}

	recorder := newRecorder()
	pctx := provisioning.NewContext(ctx, cfg, instances, dns, observer)
	pctx.Metrics = recorder

	return &session{cfg: cfg, pctx: pctx, recorder: recorder, command: command}, nil
}

// close pushes the run metrics when a Pushgateway is configured. A failed
// push is only logged.
func (s *session) close() {
	url := s.cfg.Metrics.PushgatewayURL
	if url == "" {
		return
	}
	// The run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), s.pctx.Timeouts.ProbeTimeout)
	defer cancel()
	if err := s.recorder.Push(ctx, url, s.cfg.General.Namespace, s.command); err != nil {
		s.pctx.Observer.Printf("Warning: %v", err)
	}
}

// retryOptions derives the listing retry policy from the timeouts.
func retryOptions(s *session) []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(s.pctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(s.pctx.Timeouts.RetryInitialDelay),
	}
}
