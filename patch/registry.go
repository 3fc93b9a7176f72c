package patch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/glob"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Unsupported is the message of an operation no definition matches.
const Unsupported = "This operation is not supported."

// Env is what patch operations work against.
type Env struct {
	Store  *content.Store
	Fields *schema.Registry
	Config *config.Config
}

// Now returns the store clock.
func (e *Env) Now() time.Time {
	if e.Store != nil && e.Store.Now != nil {
		return e.Store.Now()
	}
	return time.Now()
}

// PerformFunc applies one operation to obj.
type PerformFunc func(ctx context.Context, env *Env, obj any, op Operation) error

// Definition binds a resource, an op and a path glob to a PerformFunc. Op
// "*" matches every op. In Path, "*" matches one segment and "**" any
// number.
type Definition struct {
	Resource string
	Op       string
	Path     string
	Perform  PerformFunc

	matcher glob.Glob
}

// Registry holds definitions in registration order.
type Registry struct {
	mu          sync.RWMutex
	defs        []*Definition
	unsupported map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{unsupported: make(map[string]int)}
}

// Default is the registry resource packages register with at init.
var Default = NewRegistry()

// Register adds d to the default registry.
func Register(d Definition) {
	Default.MustRegister(d)
}

// UnsupportedStatus sets the status the default registry answers with when
// no definition of resource matches.
func UnsupportedStatus(resource string, status int) {
	Default.SetUnsupportedStatus(resource, status)
}

// MustRegister adds d and panics on a bad path glob.
func (r *Registry) MustRegister(d Definition) {
	if err := r.Add(d); err != nil {
		panic(err)
	}
}

// Add compiles the path glob of d and appends it.
func (r *Registry) Add(d Definition) error {
	if d.Resource == "" || d.Op == "" || d.Perform == nil {
		return fmt.Errorf("patch definition %s %s %s is incomplete", d.Resource, d.Op, d.Path)
	}
	m, err := glob.Compile(d.Path, '/')
	if err != nil {
		return fmt.Errorf("patch definition %s %s: bad path %q: %w", d.Resource, d.Op, d.Path, err)
	}
	d.matcher = m
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = append(r.defs, &d)
	return nil
}

// SetUnsupportedStatus sets the status for unmatched operations on
// resource. The default is 400.
func (r *Registry) SetUnsupportedStatus(resource string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsupported[resource] = status
}

// Resources returns the names of the resources with definitions.
func (r *Registry) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, d := range r.defs {
		if !seen[d.Resource] {
			seen[d.Resource] = true
			out = append(out, d.Resource)
		}
	}
	return out
}

// Find returns the first definition matching op on resource.
func (r *Registry) Find(resource string, op Operation) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.defs {
		if d.Resource != resource {
			continue
		}
		if d.Op != "*" && d.Op != op.Op {
			continue
		}
		if d.matcher.Match(op.Path) {
			return d, true
		}
	}
	return nil, false
}

// Apply performs ops on obj in order. The request is all or nothing: on the
// first failure the store is restored to its state before the first op.
func (r *Registry) Apply(ctx context.Context, env *Env, resource string, obj any, ops []Operation) (err error) {
	limit := 0
	if env.Config != nil {
		limit = env.Config.OperationsLimit
	}
	if limit > 0 && len(ops) > limit {
		return Unprocessable("the number of operations %d exceeds the limit of %d", len(ops), limit)
	}
	ctx = slogcontext.With(ctx, "resource", resource)
	if env.Store != nil {
		snap := env.Store.Snapshot()
		defer func() {
			if err != nil {
				snap.Restore()
				slogcontext.Log(ctx, slog.LevelDebug, "patch rolled back", "ops", len(ops))
			}
		}()
	}
	for _, op := range ops {
		d, ok := r.Find(resource, op)
		if !ok {
			r.mu.RLock()
			status, custom := r.unsupported[resource]
			r.mu.RUnlock()
			if !custom {
				status = http.StatusBadRequest
			}
			slogcontext.Log(ctx, slog.LevelDebug, "unsupported patch operation", "op", op.String())
			return newError(status, Unsupported)
		}
		if perr := d.Perform(ctx, env, obj, op); perr != nil {
			slogcontext.Log(ctx, slog.LevelDebug, "patch operation failed", "op", op.String(), "err", perr)
			return perr
		}
		slogcontext.Log(ctx, slog.LevelDebug, "applied patch operation", "op", op.String())
	}
	return nil
}

// Apply runs ops through the default registry.
func Apply(ctx context.Context, env *Env, resource string, obj any, ops []Operation) error {
	return Default.Apply(ctx, env, resource, obj, ops)
}
