// Package templates resolves template names to file paths, letting this
// package override templates shipped by the host application.
package templates

import (
	"os"
	"path/filepath"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// Resolver maps a template name to the path it should be loaded from.
// When the override directory carries a file with that name, its path
// wins over the default; the result then runs through a registered
// transform chain so external code can redirect paths further.
// Resolution is pure apart from the existence check on the override
// directory.
type Resolver struct {
	overrideDir string
	chain       *shared.HookChain[string]
}

// NewResolver creates a resolver with the given override directory
func NewResolver(overrideDir string) *Resolver {
	return &Resolver{
		overrideDir: overrideDir,
		chain:       shared.NewHookChain[string](),
	}
}

// RegisterPathHook adds a transform invoked on every resolved path, in
// registration order
func (r *Resolver) RegisterPathHook(h shared.Hook[string]) {
	r.chain.Register(h)
}

// Resolve returns the path the template should be loaded from
func (r *Resolver) Resolve(name, defaultPath string) string {
	path := defaultPath

	if r.overrideDir != "" && name != "" {
		candidate := filepath.Join(r.overrideDir, filepath.Clean(name))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			path = candidate
		}
	}

	return r.chain.Apply(path)
}
