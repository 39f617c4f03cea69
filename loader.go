package web2pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// documentLoader issues the load request against a rendering surface and arms
// a completion strategy with the ordering each variant needs.
type documentLoader struct {
	// baseRoot restricts local-file loads. Empty means a per-user default
	// resolved lazily on the first local load.
	baseRoot string
}

// Load resolves the source to a navigable URL, arms the strategy, and starts
// the load. For local files the resolved path must stay under the base access
// root; escapes are rejected rather than widened.
func (l *documentLoader) Load(surface renderSurface, strategy completionStrategy, source string) error {
	target, err := l.resolveTarget(source)
	if err != nil {
		return err
	}

	// Signal variant installs its binding here, before navigation begins.
	if err := strategy.Prepare(surface); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := surface.Navigate(target); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return strategy.Start(surface)
}

// resolveTarget maps a source reference to the URL handed to the surface.
// Network URLs pass through; everything else is treated as a local file and
// checked against the base access root.
func (l *documentLoader) resolveTarget(source string) (string, error) {
	if fileutil.IsURL(source) {
		return source, nil
	}

	path := strings.TrimPrefix(source, "file://")

	root, err := l.resolveRoot()
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q not under %q", ErrSourceOutsideRoot, path, root)
	}

	return "file://" + path, nil
}

// resolveRoot returns the base access root: the configured one, or an
// application-owned directory under the user cache dir.
func (l *documentLoader) resolveRoot() (string, error) {
	if l.baseRoot != "" {
		return filepath.Clean(l.baseRoot), nil
	}

	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageRootUnavailable, err)
	}
	return filepath.Join(cache, "web2pdf"), nil
}
