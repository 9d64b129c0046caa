package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	Namespace        string
	InstanceProvider string
	Location         string
	DNSProvider      string
	Zone             string
	User             string
	Password         string
	Version          string
}

// RunWizard asks for the settings of a new configuration. The provider
// choices are the names registered with the provider registry.
func RunWizard(ctx context.Context, instanceProviders, dnsProviders []string) (*WizardResult, error) {
	result := &WizardResult{
		Namespace: "party",
		User:      DefaultUser,
		Location:  "fsn1",
	}
	if len(instanceProviders) > 0 {
		result.InstanceProvider = instanceProviders[0]
	}
	if len(dnsProviders) > 0 {
		result.DNSProvider = dnsProviders[0]
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Prefix of every instance and sub-domain of every record (DNS-safe, lowercase)").
				Placeholder("party").
				Value(&result.Namespace).
				Validate(validateNamespace),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance provider").
				Description("Where the hosts run. Credentials are read from the environment").
				Options(huh.NewOptions(instanceProviders...)...).
				Value(&result.InstanceProvider),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location").
				Description("Hetzner Cloud datacenter location").
				Options(
					huh.NewOption("Falkenstein, Germany (fsn1)", "fsn1"),
					huh.NewOption("Nuremberg, Germany (nbg1)", "nbg1"),
					huh.NewOption("Helsinki, Finland (hel1)", "hel1"),
					huh.NewOption("Ashburn, USA (ash)", "ash"),
				).
				Value(&result.Location),
		).WithHideFunc(func() bool { return result.InstanceProvider != "hcloud" }),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("DNS provider").
				Options(huh.NewOptions(dnsProviders...)...).
				Value(&result.DNSProvider),
			huh.NewInput().
				Title("DNS zone").
				Description("Records are created as <name>.<namespace>.<zone>").
				Placeholder("example.com").
				Value(&result.Zone).
				Validate(validateZone),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Description("Account created on every host").
				Value(&result.User).
				Validate(validateNamespace),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.Password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Version (optional)").
				Description("Passed to the boot script, e.g. the web client release").
				Value(&result.Version),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result to a configuration with defaults applied.
func (r *WizardResult) ToConfig() (*Config, error) {
	cfg := &Config{
		General: GeneralConfig{
			Namespace: r.Namespace,
			Version:   r.Version,
		},
		Instances: InstancesConfig{
			Provider: r.InstanceProvider,
			User:     r.User,
			Password: r.Password,
		},
		DNS: DNSConfig{
			Provider: r.DNSProvider,
			Zone:     strings.TrimSuffix(r.Zone, "."),
		},
	}

	if r.InstanceProvider == "hcloud" && r.Location != "" {
		if err := cfg.Instances.Args.Encode(map[string]string{"location": r.Location}); err != nil {
			return nil, fmt.Errorf("failed to encode instance args: %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validateNamespace(s string) error {
	if s == "" {
		return fmt.Errorf("a value is required")
	}
	if !dnsLabel.MatchString(s) {
		return fmt.Errorf("must be a lowercase DNS label")
	}
	return nil
}

func validateZone(s string) error {
	cfg := Config{DNS: DNSConfig{Provider: "-", Zone: s}}
	return cfg.validateDNS()
}
