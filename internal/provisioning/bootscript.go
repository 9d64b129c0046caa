package provisioning

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/crypto/bcrypt"
)

//go:embed scripts/post_create.sh.tmpl
var defaultBootTemplate string

// DefaultBootTemplate returns the embedded boot script template.
func DefaultBootTemplate() string {
	return defaultBootTemplate
}

// BootScriptData is the data available to the boot script template.
type BootScriptData struct {
	User              string
	Password          string
	PasswordHash      string // bcrypt hash of Password, usable with chpasswd -e
	Version           string
	ExpectedDomain    string
	Namespace         string
	Label             string
	PostInstallScript string
	Vars              map[string]string
}

// LoadBootTemplate reads a template from path, or returns the embedded
// template when path is empty.
func LoadBootTemplate(path string) (string, error) {
	if path == "" {
		return defaultBootTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read boot template: %w", err)
	}
	return string(data), nil
}

// RenderBootScript executes tmpl with the sprig function map.
func RenderBootScript(tmpl string, data BootScriptData) (string, error) {
	t, err := template.New("boot").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse boot template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render boot template: %w", err)
	}
	return buf.String(), nil
}

// bootScriptData assembles the template data for the host bound to ctx.
func bootScriptData(ctx *Context, postInstallScript string) (BootScriptData, error) {
	cfg := ctx.Config
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Instances.Password), bcrypt.DefaultCost)
	if err != nil {
		return BootScriptData{}, fmt.Errorf("failed to hash user password: %w", err)
	}

	vars := make(map[string]string, len(cfg.Scripts.Vars))
	for k, v := range cfg.Scripts.Vars {
		vars[k] = v
	}

	return BootScriptData{
		User:              cfg.Instances.User,
		Password:          cfg.Instances.Password,
		PasswordHash:      string(hash),
		Version:           cfg.General.Version,
		ExpectedDomain:    ctx.Host.Domain,
		Namespace:         cfg.General.Namespace,
		Label:             ctx.Host.Label,
		PostInstallScript: postInstallScript,
		Vars:              vars,
	}, nil
}
