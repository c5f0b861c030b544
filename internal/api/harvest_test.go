package api

import (
	"testing"

	"mapl/internal/diag"
	"mapl/internal/parser"
	"mapl/internal/source"
	"mapl/internal/types"
)

func assimilateSource(t *testing.T, src string) (*Registry, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("api.mapl", []byte(src))
	rep := &testReporter{}
	res := parser.Parse(fs.Get(id), rep)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("parse errors:\n%s", rep.messages())
	}
	reg := NewRegistry(rep)
	reg.Assimilate(res.Program)
	return reg, rep
}

func TestAssimilateDeclarations(t *testing.T) {
	reg, rep := assimilateSource(t, `
#global void print(string s, ...);
#global readonly int32 version;
#type Collection<T> {
	int32 count();
}
#type Map<K, V> : Collection<V> {
	V get(K key);
	readonly int32 size;
	V[K];
	Map<V, K> inverted();
}
`)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", rep.messages())
	}

	globals := reg.GlobalFunctions()
	if len(globals) != 1 || globals[0].SymbolDescriptor() != "GLOBAL_print_string_VARIADIC" {
		t.Fatalf("globals = %+v", globals)
	}
	if p := reg.FindGlobalProperty("version"); p == nil || !p.Readonly || p.Type.Primitive != types.Int32 {
		t.Errorf("version = %+v", p)
	}

	m := reg.FindType("Map")
	if m == nil || len(m.Generics) != 2 {
		t.Fatalf("Map = %+v", m)
	}
	super := m.Supertypes[0]
	if super.Name != "Collection" || !super.Generics[0].IsParameter() || super.Generics[0].Index != 1 {
		t.Errorf("supertype = %+v", super)
	}
	get := m.Functions[0]
	if get.Return.Index != 1 || get.Params[0].Index != 0 || !get.Params[0].IsParameter() {
		t.Errorf("get = %+v", get)
	}
	inverted := m.Functions[1]
	if inverted.Return.Name != "Map" || inverted.Return.Generics[0].Index != 1 || inverted.Return.Generics[1].Index != 0 {
		t.Errorf("inverted = %+v", inverted.Return)
	}
	if len(m.Subscripts) != 1 || m.Subscripts[0].Index.Index != 0 {
		t.Errorf("subscripts = %+v", m.Subscripts)
	}

	// наследованная функция находится через супертип с подстановкой дженериков
	args := []types.Type{}
	subs := []types.Type{types.Of(types.String), types.Of(types.Int32)}
	if f := reg.FindTypeFunction("Map", "count", args, subs, nil); f == nil || f.Owner != "Collection" {
		t.Errorf("count lookup = %+v", f)
	}
}

func TestAssimilateGenericErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"type shadows primitive", "#type int32 { }", diag.APITypeShadowsPrimitive},
		{"generic shadows primitive", "#type Box<string> { }", diag.APIGenericShadowsPrim},
		{"duplicate generic", "#type Pair<T, T> { }", diag.APIDuplicateGeneric},
		{"generic with generics", "#type Box<T> { T<int32> value; }", diag.APIGenericWithGenerics},
		{"nested declaration", "{ #global int32 x; }", diag.APIDeclarationNotTopLevel},
		{"nested import", "while (true) { #import \"a.mapl\" }", diag.APIDeclarationNotTopLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rep := assimilateSource(t, tt.src)
			if rep.count(tt.code) != 1 {
				t.Errorf("expected one %s, got:\n%s", tt.code.ID(), rep.messages())
			}
		})
	}
}

func TestAssimilateThenCheck(t *testing.T) {
	reg, rep := assimilateSource(t, `
#type Node : Missing { }
#type Box<T> { Box<T, T> twin; }
#global void f(int32 a);
#global void f(int32 b);
`)
	reg.PerformErrorChecking()
	if rep.count(diag.APIMissingType) != 1 || rep.count(diag.APIGenericArity) != 1 || rep.count(diag.APIFunctionCollision) != 2 {
		t.Errorf("unexpected diagnostics:\n%s", rep.messages())
	}
}
