package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"mapl/internal/project"
)

func TestBuildCacheRoundTrip(t *testing.T) {
	cache, err := NewBuildCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.Sum([]byte("key"))

	var out BuildPayload
	if hit, err := cache.Get(key, &out); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	in := &BuildPayload{
		Order:       []string{"/main.mapl"},
		Files:       map[string][]byte{"/main.mapl": {0, 0, 0, 0}},
		SymbolTable: "#ifndef P_h\n",
		Symbols:     map[string]uint16{"GLOBAL_log_string": 1},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	hit, err := cache.Get(key, &out)
	if !hit || err != nil {
		t.Fatalf("Get() = %v, %v", hit, err)
	}
	if out.SymbolTable != in.SymbolTable || out.Symbols["GLOBAL_log_string"] != 1 || len(out.Files["/main.mapl"]) != 4 {
		t.Errorf("payload = %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll() error: %v", err)
	}
	if hit, _ := cache.Get(key, &BuildPayload{}); hit {
		t.Error("DropAll must empty the cache")
	}
}

func TestBuildCacheIgnoresOtherSchemas(t *testing.T) {
	cache, err := NewBuildCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.Sum([]byte("old"))
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&BuildPayload{Schema: buildCacheSchemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &BuildPayload{}); hit || err != nil {
		t.Fatalf("Get() = %v, %v; want a miss", hit, err)
	}
}

func TestNilBuildCache(t *testing.T) {
	var cache *BuildCache
	if err := cache.Put(project.Digest{}, &BuildPayload{}); err != nil {
		t.Error(err)
	}
	if hit, err := cache.Get(project.Digest{}, &BuildPayload{}); hit || err != nil {
		t.Errorf("Get() = %v, %v", hit, err)
	}
}
