package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/provisioning"
	hptesting "github.com/hostparty/hostparty/internal/testing"
)

// testEnv replaces every factory variable of the package with fakes backed
// by mock providers. Tests using it must not run in parallel.
type testEnv struct {
	cfg        *config.Config
	fixture    *hptesting.ProviderFixture
	instances  *provider.MockInstanceProvider
	dns        *provider.MockDNSProvider
	out        *bytes.Buffer
	logs       *bytes.Buffer
	loadedPath string
	loads      int
}

func answering() provisioning.Prober {
	return proberFunc(func(context.Context, string) error { return nil })
}

type proberFunc func(ctx context.Context, domain string) error

func (f proberFunc) Probe(ctx context.Context, domain string) error { return f(ctx, domain) }

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOSTPARTY_POLL_INTERVAL", "1ms")
	t.Setenv("HOSTPARTY_RETRY_MAX_ATTEMPTS", "1")
	t.Setenv("HOSTPARTY_RETRY_INITIAL_DELAY", "1ms")

	cfg := hptesting.MinimalConfig()
	fixture := hptesting.NewProviderFixture(cfg)
	env := &testEnv{
		cfg:       cfg,
		fixture:   fixture,
		instances: fixture.Instances,
		dns:       fixture.DNS,
		out:       &bytes.Buffer{},
		logs:      &bytes.Buffer{},
	}

	origLoad := loadConfig
	origRegistry := newRegistry
	origRunID := newRunID
	origLogOutput := logOutput
	origStdout := stdout
	origCreator := newCreator
	origFetcher := newScriptFetcher
	origTerminal := isTerminal
	origConfirm := confirm
	t.Cleanup(func() {
		loadConfig = origLoad
		newRegistry = origRegistry
		newRunID = origRunID
		logOutput = origLogOutput
		stdout = origStdout
		newCreator = origCreator
		newScriptFetcher = origFetcher
		isTerminal = origTerminal
		confirm = origConfirm
	})

	loadConfig = func(path string) (*config.Config, error) {
		env.loadedPath = path
		env.loads++
		return env.cfg, nil
	}
	newRegistry = fixture.Registry
	newRunID = func() string { return "run-1" }
	logOutput = env.logs
	stdout = env.out
	newCreator = func(opts ...provisioning.CreatorOption) *provisioning.Creator {
		return provisioning.NewCreator(append(opts, provisioning.WithProber(answering()))...)
	}
	isTerminal = func() bool { return false }
	confirm = func(context.Context, []string) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}
	return env
}

// seed makes the providers report abcde as complete, xyz12 as an orphaned
// instance and q1w2e as an orphaned record.
func (e *testEnv) seed() {
	e.fixture.
		WithHost("abcde", "1.2.3.4").
		WithOrphanedInstance("xyz12", "5.6.7.8").
		WithOrphanedRecord("q1w2e", "9.9.9.9")
}
