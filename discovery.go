// FILE: nabeghe/configurator-go/discovery.go
package configurator

import (
	"os"
	"path/filepath"
	"strings"
)

// DirDiscoveryOptions configures automatic base path discovery
type DirDiscoveryOptions struct {
	// Application name, used as the directory name under config roots
	Name string

	// Environment variable to check for an explicit base path
	EnvVar string

	// Custom candidate directories, checked first
	Paths []string

	// Whether to consider XDG config directories
	UseXDG bool

	// Whether to consider ./<name> under the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) DirDiscoveryOptions {
	return DirDiscoveryOptions{
		Name:          appName,
		EnvVar:        strings.ToUpper(appName) + "_CONFIG_DIR",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// WithDirDiscovery resolves the base path from the environment variable,
// then the first existing candidate directory. With no candidate existing,
// the first candidate is kept anyway so a later save can create it.
func (b *Builder) WithDirDiscovery(opts DirDiscoveryOptions) *Builder {
	// Environment variable wins
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			b.opts.Path = path
			return b
		}
	}

	// Build candidate directories
	var candidates []string

	// Custom paths first
	candidates = append(candidates, opts.Paths...)

	// Current directory
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, opts.Name))
		}
	}

	// XDG paths
	if opts.UseXDG {
		candidates = append(candidates, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			b.opts.Path = dir
			return b
		}
	}

	// No directory found is not an error - the first save creates it
	if len(candidates) > 0 {
		b.opts.Path = candidates[0]
	}
	return b
}

// XDGBasePath returns the primary per-user config directory for an app.
func XDGBasePath(appName string) string {
	paths := getXDGConfigPaths(appName)
	if len(paths) == 0 {
		return appName
	}
	return paths[0]
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
