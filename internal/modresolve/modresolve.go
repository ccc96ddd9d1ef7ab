// Package modresolve implements the import pre-pass of §4.7: before
// compilation or interpretation, it walks a program's top-level import
// items, resolves each to an evaluated module, and splices the exported
// bindings into the importer's globals so both internal/interp and
// internal/vm consume identical pre-pass output (§4.7 "parity is
// automatic").
//
// The filesystem-backed module loader — and the lexer/parser that turns
// a module's bytes into a rawast.Program — are explicitly out of scope
// (spec.md's "explicitly out of scope" list); Resolver is driven by
// whatever Loader its host supplies.
package modresolve

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/rawast"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/types"
	"github.com/atlas-lang/atlas/internal/value"
	"github.com/atlas-lang/atlas/internal/vm"
)

// Loader reads and parses the module at a canonical path into an untyped
// AST. A real implementation backs this by the filesystem and a front
// end this module does not specify.
type Loader interface {
	Load(canonicalPath string) (*rawast.Program, error)
}

// Exports is a loaded module's top-level bindings, keyed by the name the
// module declared them under (before any importer-side alias).
type Exports map[string]value.Value

type cacheEntry struct {
	id      uuid.UUID
	exports Exports
}

// Resolver drives one host's worth of module loading: it normalizes
// specifiers, loads each canonical path at most once even under
// concurrent callers, caches the resulting export map, and fails
// CircularImport on self-referential import chains (§4.7).
type Resolver struct {
	loader Loader
	sec    *security.Context
	out    dispatch.Output

	group singleflight.Group

	mu      sync.Mutex
	cache   map[string]*cacheEntry
	loading map[string]bool
}

// New constructs a Resolver. sec and out are threaded into every module's
// own evaluation, exactly as they are into the importer's.
func New(loader Loader, sec *security.Context, out dispatch.Output) *Resolver {
	return &Resolver{
		loader:  loader,
		sec:     sec,
		out:     out,
		cache:   make(map[string]*cacheEntry),
		loading: make(map[string]bool),
	}
}

// Canonical normalizes specifier relative to the directory of
// importingFile (§4.7a).
func Canonical(importingFile, specifier string) string {
	if filepath.IsAbs(specifier) {
		return filepath.Clean(specifier)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(importingFile), specifier))
}

// Resolve loads (or returns the cached load of) the module specifier
// names relative to importingFile, returning its export map.
//
// The currently_loading check happens before singleflight.Group.Do is
// ever reached for path: Do blocks a second caller for an in-flight key
// until the first finishes, which would deadlock a self-import chain
// (A imports B imports A, all on one goroutine) if the cycle check ran
// inside the Do callback instead of in front of it.
func (r *Resolver) Resolve(importingFile, specifier string, span diag.Span) (Exports, error) {
	path := Canonical(importingFile, specifier)

	r.mu.Lock()
	if r.loading[path] {
		r.mu.Unlock()
		return nil, rterr.CircularImport(span, path)
	}
	if entry, ok := r.cache[path]; ok {
		r.mu.Unlock()
		return entry.exports, nil
	}
	r.loading[path] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.loading, path)
		r.mu.Unlock()
	}()

	v, err, _ := r.group.Do(path, func() (any, error) {
		return r.load(path)
	})
	if err != nil {
		return nil, err
	}
	entry := v.(*cacheEntry)

	r.mu.Lock()
	r.cache[path] = entry
	r.mu.Unlock()
	return entry.exports, nil
}

// load performs steps (b) and (c) of §4.7: read+parse once, then
// evaluate in a fresh interpreter context whose top-level bindings
// become the module's exports.
func (r *Resolver) load(path string) (*cacheEntry, error) {
	raw, err := r.loader.Load(path)
	if err != nil {
		return nil, rterr.IoError(diag.Span{File: path}, err.Error())
	}

	annotated, _, diags := binder.New(25).Bind(raw)
	diags = append(diags, types.New(25).Check(annotated)...)
	if firstError(diags) != "" {
		return nil, rterr.IoError(diag.Span{File: path}, "module failed to compile: "+firstError(diags))
	}

	in := interp.New(r.sec, r.out)
	if err := r.ResolveImports(path, annotated, in); err != nil {
		return nil, err
	}
	if _, err := in.Run(annotated); err != nil {
		return nil, err
	}

	exports := make(Exports)
	for _, item := range annotated.Items {
		switch it := item.(type) {
		case *ast.LetDecl:
			if it.Symbol == nil {
				continue
			}
			if v, ok := in.GlobalValue(it.Symbol); ok {
				exports[it.Symbol.Name] = v
			}
		case *ast.FuncDecl:
			// Exported as a Value::Function whose Body is the FuncDecl
			// itself: usable by another interpreter's callValue exactly
			// as a local function reference would be. internal/vm does
			// not compile imported bodies into the importer's chunk, so
			// calling an imported function from VM-executed code is not
			// supported (see DESIGN.md).
			exports[it.Name] = value.Function(&value.FunctionValue{
				Name:  it.Name,
				Arity: len(it.Params),
				Body:  it,
			})
		}
	}
	return &cacheEntry{id: uuid.New(), exports: exports}, nil
}

func firstError(diags []diag.Diagnostic) string {
	for _, d := range diags {
		if d.Level == diag.LevelError {
			return d.Message
		}
	}
	return ""
}

// ResolveImports runs step (e) of §4.7 over prog's own top-level import
// items, binding each into in's globals before prog itself runs. It is
// used both for a loaded module's own imports (from load) and for the
// top-level program a host is about to run (from RunInterpreter).
func (r *Resolver) ResolveImports(path string, prog *ast.Program, in *interp.Interpreter) error {
	for _, item := range prog.Items {
		id, ok := item.(*ast.ImportDecl)
		if !ok {
			continue
		}
		exports, err := r.Resolve(path, id.Path, id.Sp)
		if err != nil {
			return err
		}
		if id.NamespaceSymbol != nil {
			ns := value.HashMap()
			for name, v := range exports {
				ns = ns.HashMapSet(value.String(name), v.Clone())
			}
			in.Global(id.NamespaceSymbol, ns)
		}
		for _, spec := range id.Specs {
			v, ok := exports[spec.Name]
			if !ok {
				return rterr.UnknownFunction(id.Sp, spec.Name)
			}
			in.Global(spec.Symbol, v.Clone())
		}
	}
	return nil
}

// ResolveImportsVM is ResolveImports' internal/vm counterpart: the VM
// indexes globals by name (the constant-pool string internal/compiler
// baked into OpGetGlobal/OpSetGlobal), not by *symbols.Symbol, so the
// binding keys are the specifier's resolved name directly.
func (r *Resolver) ResolveImportsVM(path string, prog *ast.Program, v *vm.VM) error {
	for _, item := range prog.Items {
		id, ok := item.(*ast.ImportDecl)
		if !ok {
			continue
		}
		exports, err := r.Resolve(path, id.Path, id.Sp)
		if err != nil {
			return err
		}
		if id.NamespaceSymbol != nil {
			ns := value.HashMap()
			for name, val := range exports {
				ns = ns.HashMapSet(value.String(name), val.Clone())
			}
			v.SetGlobal(id.NamespaceSymbol.Name, ns)
		}
		for _, spec := range id.Specs {
			val, ok := exports[spec.Name]
			if !ok {
				return rterr.UnknownFunction(id.Sp, spec.Name)
			}
			name := spec.Alias
			if name == "" {
				name = spec.Name
			}
			v.SetGlobal(name, val.Clone())
		}
	}
	return nil
}

// RunInterpreter resolves prog's own imports and then tree-walks it to
// completion, the import-aware counterpart of pkg/atlas.EvalInterpreter.
func (r *Resolver) RunInterpreter(path string, prog *ast.Program, sec *security.Context, out dispatch.Output) (value.Value, error) {
	in := interp.New(sec, out)
	if err := r.ResolveImports(path, prog, in); err != nil {
		return value.Value{}, err
	}
	return in.Run(prog)
}

// RunVM resolves prog's own imports into a fresh VM's globals and then
// executes chunk, the import-aware counterpart of pkg/atlas.EvalVM.
func (r *Resolver) RunVM(path string, prog *ast.Program, chunk *bytecode.Chunk, sec *security.Context, out dispatch.Output) (value.Value, error) {
	m := vm.New(chunk, sec, out)
	if err := r.ResolveImportsVM(path, prog, m); err != nil {
		return value.Value{}, err
	}
	return m.Run()
}
