package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	getter "github.com/hashicorp/go-getter"
)

const fetchTimeout = 60 * time.Second

// isRemoteSource reports whether the registry source needs to be downloaded.
// Forced getters ("git::", "s3::") and URL schemes other than file count as remote.
func isRemoteSource(source string) bool {
	if strings.Contains(source, "::") {
		return true
	}
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return false
	}
	// windows drive letters parse as a one letter scheme
	return len(u.Scheme) > 1
}

// fetch downloads a remote registry file into a temporary directory and returns
// its local path and a cleanup func.
func (l *RegistryLoader) fetch(ctx context.Context, source string) (string, func(), error) {
	dir, err := os.MkdirTemp(l.fetchDir, "registry-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create registry download dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, "registry"+registryExtension(source))

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	client := getter.Client{
		Ctx:  ctx,
		Src:  source,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to download registry from %s: %w", source, err)
	}

	return dst, cleanup, nil
}

// registryExtension keeps the source's extension so the file is parsed with the
// right format. Anything that is not .json is treated as TOML.
func registryExtension(source string) string {
	if i := strings.LastIndex(source, "::"); i >= 0 {
		source = source[i+2:]
	}
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		source = u.Path
	}
	if strings.EqualFold(path.Ext(source), ".json") {
		return ".json"
	}
	return ".toml"
}
