package modresolve

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/rawast"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/testutil"
	"github.com/atlas-lang/atlas/internal/value"
)

func sp(file string, line int) diag.Span { return diag.Span{File: file, Line: line, Column: 1} }

type nullOutput struct{ buf []string }

func (o *nullOutput) WriteString(s string) (int, error) {
	o.buf = append(o.buf, s)
	return len(s), nil
}

// mapLoader stands in for the out-of-scope filesystem loader: it maps a
// canonical path straight to a pre-built rawast.Program and counts loads
// per path, so tests can assert the resolver's caching and singleflight
// behavior without a real lexer/parser.
type mapLoader struct {
	mu      sync.Mutex
	mods    map[string]*rawast.Program
	loads   map[string]*int32
	loadErr map[string]error
}

func newMapLoader() *mapLoader {
	return &mapLoader{mods: make(map[string]*rawast.Program), loads: make(map[string]*int32), loadErr: make(map[string]error)}
}

func (l *mapLoader) set(path string, prog *rawast.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mods[path] = prog
	var n int32
	l.loads[path] = &n
}

func (l *mapLoader) Load(path string) (*rawast.Program, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, ok := l.loadErr[path]; ok {
		return nil, err
	}
	if n, ok := l.loads[path]; ok {
		atomic.AddInt32(n, 1)
	}
	prog, ok := l.mods[path]
	if !ok {
		return nil, rterr.IoError(diag.Span{File: path}, "no such module")
	}
	return prog, nil
}

func (l *mapLoader) loadCount(path string) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return atomic.LoadInt32(l.loads[path])
}

func numberLet(name string, v float64, line int, file string) *rawast.LetDecl {
	return &rawast.LetDecl{Name: name, Mutable: false, Init: &rawast.NumberLit{Value: v, Sp: sp(file, line)}, Sp: sp(file, line)}
}

func TestResolveReturnsExportedLetBinding(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	util := sb.Path("util.atl")
	main := sb.Path("main.atl")

	loader := newMapLoader()
	loader.set(util, &rawast.Program{Items: []rawast.Node{numberLet("pi", 3.5, 1, util)}})

	r := New(loader, security.Unrestricted(), &nullOutput{})
	exports, err := r.Resolve(main, "./util.atl", sp(main, 1))
	require.NoError(t, err)
	require.Contains(t, exports, "pi")
	require.Equal(t, 3.5, exports["pi"].AsNumber())
}

func TestResolveCachesByCanonicalPath(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	util := sb.Path("util.atl")
	loader := newMapLoader()
	loader.set(util, &rawast.Program{Items: []rawast.Node{numberLet("x", 1, 1, util)}})

	r := New(loader, security.Unrestricted(), &nullOutput{})
	main := sb.Path("main.atl")

	_, err = r.Resolve(main, "./util.atl", sp(main, 1))
	require.NoError(t, err)
	_, err = r.Resolve(main, "./util.atl", sp(main, 2))
	require.NoError(t, err)

	require.Equal(t, int32(1), loader.loadCount(util))
}

func TestResolveDetectsCircularImport(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	a := sb.Path("a.atl")
	b := sb.Path("b.atl")

	loader := newMapLoader()
	loader.set(a, &rawast.Program{Items: []rawast.Node{
		&rawast.ImportDecl{Path: "./b.atl", Specs: []*rawast.ImportSpec{{Name: "x", Sp: sp(a, 1)}}, Sp: sp(a, 1)},
	}})
	loader.set(b, &rawast.Program{Items: []rawast.Node{
		&rawast.ImportDecl{Path: "./a.atl", Specs: []*rawast.ImportSpec{{Name: "y", Sp: sp(b, 1)}}, Sp: sp(b, 1)},
	}})

	r := New(loader, security.Unrestricted(), &nullOutput{})
	_, err = r.Resolve(sb.Path("main.atl"), "./a.atl", sp(sb.Path("main.atl"), 1))
	require.Error(t, err)
	rerr, ok := rterr.As(err)
	require.True(t, ok)
	require.Equal(t, rterr.KindCircularImport, rerr.Kind)
}

func TestCanonicalNormalizesRelativeToImportingFile(t *testing.T) {
	got := Canonical("/proj/src/main.atl", "./lib/util.atl")
	require.Equal(t, "/proj/src/lib/util.atl", got)
}

func TestResolveImportsBindsNamespaceAsHashMap(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	util := sb.Path("util.atl")
	loader := newMapLoader()
	loader.set(util, &rawast.Program{Items: []rawast.Node{numberLet("pi", 3.5, 1, util)}})

	r := New(loader, security.Unrestricted(), &nullOutput{})

	main := sb.Path("main.atl")
	nsSym := &symbols.Symbol{Name: "u", Kind: symbols.Variable}
	prog := &ast.Program{Items: []ast.Node{
		&ast.ImportDecl{Path: "./util.atl", Namespace: "u", NamespaceSymbol: nsSym},
	}}

	in := interp.New(security.Unrestricted(), &nullOutput{})
	require.NoError(t, r.ResolveImports(main, prog, in))

	bound, ok := in.GlobalValue(nsSym)
	require.True(t, ok)
	require.Equal(t, value.KindHashMap, bound.Kind())
	pi, ok := bound.HashMapGet(value.String("pi"))
	require.True(t, ok)
	require.Equal(t, 3.5, pi.AsNumber())
}
