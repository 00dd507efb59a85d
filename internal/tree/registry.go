package tree

import (
	"fmt"
	"sort"
	"sync"

	"lineroute/pkg/routetypes"
)

// Registry is the path-indexed store of executables and categories. All reads
// and writes go through the registry, which guards the tree with a
// read-write lock so registration and unregistration are safe concurrently
// with in-flight dispatch.
type Registry struct {
	mu         sync.RWMutex
	roots      map[string]Node
	executable map[string]*Executable // keyed children by path string
	defaults   map[string]*Executable // default actions by category path
	categories map[string]*Category
	nextID     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		roots:      make(map[string]Node),
		executable: make(map[string]*Executable),
		defaults:   make(map[string]*Executable),
		categories: make(map[string]*Category),
		nextID:     1,
	}
}

// Register compiles spec into an Executable and inserts it into the tree,
// creating intermediate categories as needed. A spec marked Default becomes
// the default action of the category at its path instead of a keyed child.
// Registered paths are unique; conflicts are errors.
func (r *Registry) Register(spec routetypes.CommandSpec) (*Executable, error) {
	path, err := NewPath(spec.Path)
	if err != nil {
		return nil, err
	}
	if spec.Handler == nil {
		return nil, fmt.Errorf("command %q has no handler", path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exec := &Executable{
		path:        path,
		permission:  spec.Permission,
		cooldown:    spec.Cooldown,
		description: spec.Description,
		usage:       spec.Usage,
		secret:      spec.Secret,
		handler:     spec.Handler,
		responder:   spec.Responder,
	}
	params := make([]*Parameter, 0, len(spec.Parameters))
	for i, ps := range spec.Parameters {
		p, err := compileParameter(ps, i, exec)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	exec.params = params

	if spec.Default {
		cat, err := r.ensureCategory(path)
		if err != nil {
			return nil, err
		}
		if cat.defaultAction != nil {
			return nil, fmt.Errorf("category %q already has a default action", path)
		}
		exec.parent = cat
		exec.id = r.nextID
		r.nextID++
		cat.defaultAction = exec
		r.defaults[path.String()] = exec
		return exec, nil
	}

	key := path.String()
	if _, exists := r.executable[key]; exists {
		return nil, fmt.Errorf("command %q already registered", path)
	}
	if _, exists := r.categories[key]; exists {
		return nil, fmt.Errorf("path %q is registered as a category", path)
	}

	if path.IsRoot() {
		if _, exists := r.roots[path.First()]; exists {
			return nil, fmt.Errorf("root path %q already taken", path)
		}
		exec.id = r.nextID
		r.nextID++
		r.roots[path.First()] = exec
		r.executable[key] = exec
		return exec, nil
	}

	parentPath, _ := path.Parent()
	parent, err := r.ensureCategory(parentPath)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.children[path.Last()]; exists {
		return nil, fmt.Errorf("command %q already registered", path)
	}
	exec.parent = parent
	exec.id = r.nextID
	r.nextID++
	parent.children[path.Last()] = exec
	r.executable[key] = exec
	return exec, nil
}

// RegisterCategory ensures the category at spec.Path exists and attaches its
// descent permission.
func (r *Registry) RegisterCategory(spec routetypes.CategorySpec) (*Category, error) {
	path, err := NewPath(spec.Path)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, err := r.ensureCategory(path)
	if err != nil {
		return nil, err
	}
	cat.permission = spec.Permission
	return cat, nil
}

// ensureCategory returns the category at path, creating it and any missing
// ancestors. Fails when an executable already occupies a needed slot. Caller
// holds the write lock.
func (r *Registry) ensureCategory(path Path) (*Category, error) {
	key := path.String()
	if cat, ok := r.categories[key]; ok {
		return cat, nil
	}
	if _, ok := r.executable[key]; ok {
		return nil, fmt.Errorf("path %q is registered as a command", path)
	}

	var parent *Category
	if !path.IsRoot() {
		parentPath, _ := path.Parent()
		var err error
		parent, err = r.ensureCategory(parentPath)
		if err != nil {
			return nil, err
		}
	}

	cat := &Category{
		path:     path,
		children: make(map[string]Node),
		parent:   parent,
	}
	if parent == nil {
		if _, exists := r.roots[path.First()]; exists {
			return nil, fmt.Errorf("root path %q already taken", path)
		}
		r.roots[path.First()] = cat
	} else {
		parent.children[path.Last()] = cat
	}
	r.categories[key] = cat
	return cat, nil
}

// Lookup returns the node registered at path. When both a category and its
// default action share the path, the category is returned; its default action
// is reachable through DefaultActionOf.
func (r *Registry) Lookup(path Path) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := path.String()
	if cat, ok := r.categories[key]; ok {
		return cat, true
	}
	if exec, ok := r.executable[key]; ok {
		return exec, true
	}
	return nil, false
}

// RootChild returns the root node addressed by segment, case-insensitively.
func (r *Registry) RootChild(segment string) (Node, bool) {
	path, err := NewPathFromSegments([]string{segment})
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.roots[path.First()]
	return n, ok
}

// ChildOf returns cat's direct child addressed by segment,
// case-insensitively.
func (r *Registry) ChildOf(cat *Category, segment string) (Node, bool) {
	path, err := NewPathFromSegments([]string{segment})
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cat.child(path.First())
}

// ChildNames returns the segment names of cat's direct children, sorted.
func (r *Registry) ChildNames(cat *Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(cat.children))
	for name := range cat.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultActionOf returns cat's default action, or nil.
func (r *Registry) DefaultActionOf(cat *Category) *Executable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cat.defaultAction
}

// Unregister removes every executable and category at path or beneath it,
// then prunes ancestor categories left with no children and no default
// action. Returns true when anything was removed.
func (r *Registry) Unregister(raw string) bool {
	path, err := NewPath(raw)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := path.String()
	removed := false
	var pruneFrom *Category

	if exec, ok := r.executable[key]; ok {
		r.detach(exec.path, exec.parent)
		delete(r.executable, key)
		pruneFrom = exec.parent
		removed = true
	}
	if cat, ok := r.categories[key]; ok {
		r.removeSubtree(cat)
		r.detach(cat.path, cat.parent)
		pruneFrom = cat.parent
		removed = true
	}
	if removed {
		r.prune(pruneFrom)
	}
	return removed
}

// UnregisterDefault removes only the default action of the category at path,
// pruning the category itself when that leaves it empty. Returns true when a
// default action was removed.
func (r *Registry) UnregisterDefault(raw string) bool {
	path, err := NewPath(raw)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cat, ok := r.categories[path.String()]
	if !ok || cat.defaultAction == nil {
		return false
	}
	cat.defaultAction = nil
	delete(r.defaults, path.String())
	if cat.isEmpty() {
		r.detach(cat.path, cat.parent)
		delete(r.categories, cat.path.String())
		r.prune(cat.parent)
	}
	return true
}

// removeSubtree deletes every index entry below cat. Caller holds the write
// lock and detaches cat itself.
func (r *Registry) removeSubtree(cat *Category) {
	delete(r.categories, cat.path.String())
	delete(r.defaults, cat.path.String())
	cat.defaultAction = nil
	for _, child := range cat.children {
		switch n := child.(type) {
		case *Executable:
			delete(r.executable, n.path.String())
		case *Category:
			r.removeSubtree(n)
		}
	}
	cat.children = make(map[string]Node)
}

// detach removes the node at path from its parent's child map, or from the
// roots when parent is nil. Caller holds the write lock.
func (r *Registry) detach(path Path, parent *Category) {
	if parent == nil {
		delete(r.roots, path.First())
		return
	}
	delete(parent.children, path.Last())
}

// prune walks upward from cat removing categories left with no children and
// no default action. Caller holds the write lock.
func (r *Registry) prune(cat *Category) {
	for cat != nil && cat.isEmpty() {
		r.detach(cat.path, cat.parent)
		delete(r.categories, cat.path.String())
		cat = cat.parent
	}
}

// Executables returns every registered executable, default actions included,
// sorted by path for deterministic iteration.
func (r *Registry) Executables() []*Executable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Executable, 0, len(r.executable)+len(r.defaults))
	for _, exec := range r.executable {
		out = append(out, exec)
	}
	for _, exec := range r.defaults {
		out = append(out, exec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].path.Equal(out[j].path) {
			return out[i].id < out[j].id
		}
		return out[i].path.Less(out[j].path)
	})
	return out
}

// RootNames returns the root segment names, sorted.
func (r *Registry) RootNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.roots))
	for name := range r.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
