package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/platform/s3"
)

// ScriptFetcher downloads s3://bucket/key objects.
type ScriptFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// newScriptFetcher creates the object storage client - can be replaced in tests.
var newScriptFetcher = func(ctx context.Context, storage config.StorageConfig) (ScriptFetcher, error) {
	return s3.NewClient(ctx, s3.Options{
		Endpoint:  storage.Endpoint,
		Region:    storage.Region,
		AccessKey: storage.AccessKey,
		SecretKey: storage.SecretKey,
	})
}

// loadPostInstallScript reads the script named by source, a local path or
// an s3://bucket/key URI. An empty source yields an empty script.
func loadPostInstallScript(ctx context.Context, storage config.StorageConfig, source string) (string, error) {
	if source == "" {
		return "", nil
	}

	if s3.IsURI(source) {
		fetcher, err := newScriptFetcher(ctx, storage)
		if err != nil {
			return "", err
		}
		data, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	// #nosec G304
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return string(data), nil
}
