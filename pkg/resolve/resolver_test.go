package resolve

import (
	"testing"

	"github.com/drips-network/gardener-sub000/pkg/lang"
)

func newTestFiles(paths ...string) *FileSet {
	fs := NewFileSet()
	for _, p := range paths {
		fs.Add(SourceFile{RelPath: p, Lang: lang.FromFilename(p)})
	}
	return fs
}

func TestResolvePython(t *testing.T) {
	files := newTestFiles(
		"pkg/__init__.py",
		"pkg/util.py",
		"pkg/sub/__init__.py",
		"pkg/sub/mod.py",
		"main.py",
	)
	r := New(files, Options{})

	tests := []struct {
		name   string
		file   string
		module string
		level  int
		want   string
	}{
		{"absolute module file", "main.py", "pkg.util", 0, "pkg/util.py"},
		{"absolute package init", "main.py", "pkg", 0, "pkg/__init__.py"},
		{"dotted absolute", "main.py", "pkg.sub.mod", 0, "pkg/sub/mod.py"},
		{"relative sibling", "pkg/sub/mod.py", "mod", 1, "pkg/sub/mod.py"},
		{"relative level one", "pkg/util.py", "sub.mod", 1, "pkg/sub/mod.py"},
		{"relative level two", "pkg/sub/mod.py", "util", 2, "pkg/util.py"},
		{"bare relative package", "pkg/util.py", "", 1, "pkg/__init__.py"},
		{"blank absolute rejected", "main.py", "", 0, ""},
		{"missing module", "main.py", "nosuch", 0, ""},
		{"walks past root", "main.py", "util", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolvePython(tt.file, tt.module, tt.level)
			if tt.want == "" {
				if got.IsResolved() {
					t.Fatalf("expected unresolved, got %q", got.Path)
				}
				return
			}
			if got.Kind != KindFile || got.Path != tt.want {
				t.Fatalf("got %+v, want file %q", got, tt.want)
			}
		})
	}
}

func TestResolveGo(t *testing.T) {
	files := newTestFiles(
		"internal/store/store.go",
		"internal/api/handler.go",
		"internal/api/routes.go",
		"util.go",
		"main.go",
	)
	r := New(files, Options{GoModulePath: "example.com/svc"})

	tests := []struct {
		name string
		file string
		imp  string
		want string
	}{
		{"module path dir file", "main.go", "example.com/svc/internal/store", "internal/store/store.go"},
		{"relative file", "internal/api/handler.go", "../store", "internal/store/store.go"},
		{"external module", "main.go", "github.com/other/dep", ""},
		{"ambiguous package dir", "main.go", "example.com/svc/internal/api", ""},
		{"missing dir", "main.go", "example.com/svc/internal/missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveGo(tt.file, tt.imp)
			if tt.want == "" {
				if got.IsResolved() {
					t.Fatalf("expected unresolved, got %q", got.Path)
				}
				return
			}
			if got.Path != tt.want {
				t.Fatalf("got %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestResolveRust(t *testing.T) {
	files := newTestFiles(
		"src/lib.rs",
		"src/config.rs",
		"src/net/mod.rs",
		"src/net/client.rs",
	)
	r := New(files, Options{})

	tests := []struct {
		name  string
		file  string
		parts []string
		want  string
	}{
		{"crate module file", "src/net/client.rs", []string{"crate", "config"}, "src/config.rs"},
		{"crate nested item", "src/lib.rs", []string{"crate", "net", "client", "Client"}, "src/net/client.rs"},
		{"crate mod file", "src/lib.rs", []string{"crate", "net"}, "src/net/mod.rs"},
		{"self sibling", "src/net/mod.rs", []string{"self", "client"}, "src/net/client.rs"},
		{"double super unsupported", "src/net/client.rs", []string{"super", "super", "config"}, ""},
		{"super module", "src/net/client.rs", []string{"super", "config"}, "src/config.rs"},
		{"bare crate root", "src/net/client.rs", []string{"crate"}, "src/lib.rs"},
		{"crate wildcard", "src/net/client.rs", []string{"crate", "*"}, "src/lib.rs"},
		{"super wildcard", "src/net/client.rs", []string{"super", "*"}, "src/net/mod.rs"},
		{"external crate", "src/lib.rs", []string{"serde", "Deserialize"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveRust(tt.file, tt.parts)
			if tt.want == "" {
				if got.IsResolved() {
					t.Fatalf("expected unresolved, got %q", got.Path)
				}
				return
			}
			if got.Path != tt.want {
				t.Fatalf("got %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestResolveRustSuperResolvesViaParentDir(t *testing.T) {
	// super from src/net/client.rs lands in src, so config resolves.
	files := newTestFiles("src/config.rs", "src/net/client.rs")
	r := New(files, Options{})
	got := r.ResolveRust("src/net/client.rs", []string{"super", "config"})
	if got.Path != "src/config.rs" {
		t.Fatalf("got %+v, want src/config.rs", got)
	}
}

func TestRustUseIsLocal(t *testing.T) {
	inline := map[string]struct{}{"helpers": {}}
	if !RustUseIsLocal([]string{"crate", "x"}, nil) {
		t.Error("crate root should be local")
	}
	if !RustUseIsLocal([]string{"helpers", "parse"}, inline) {
		t.Error("inline module root should be local")
	}
	if RustUseIsLocal([]string{"serde", "Deserialize"}, inline) {
		t.Error("external crate should not be local")
	}
	if RustUseIsLocal(nil, inline) {
		t.Error("empty path should not be local")
	}
}

func TestResolveSolidity(t *testing.T) {
	files := newTestFiles(
		"src/Token.sol",
		"src/lib/Math.sol",
		"lib/openzeppelin-contracts/contracts/token/ERC20.sol",
	)
	r := New(files, Options{
		Remappings: []Remapping{
			{Prefix: "@openzeppelin/contracts/", Target: "lib/openzeppelin-contracts/contracts/"},
		},
		HardhatRemappings: []Remapping{
			{Prefix: "hh-lib/", Target: "lib/openzeppelin-contracts/contracts/"},
		},
		SoliditySrcPath: "src",
	})

	tests := []struct {
		name string
		file string
		imp  string
		want string
	}{
		{"remapped import", "src/Token.sol", "@openzeppelin/contracts/token/ERC20.sol", "lib/openzeppelin-contracts/contracts/token/ERC20.sol"},
		{"hardhat remapping", "src/Token.sol", "hh-lib/token/ERC20.sol", "lib/openzeppelin-contracts/contracts/token/ERC20.sol"},
		{"relative import", "src/Token.sol", "./lib/Math.sol", "src/lib/Math.sol"},
		{"src root fallback", "src/lib/Math.sol", "../../Token.sol", ""},
		{"src fallback hit", "src/lib/Math.sol", "../lib/Math.sol", "src/lib/Math.sol"},
		{"unmapped external", "src/Token.sol", "forge-std/Test.sol", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveSolidity(tt.file, tt.imp)
			if tt.want == "" {
				if got.IsResolved() {
					t.Fatalf("expected unresolved, got %q", got.Path)
				}
				return
			}
			if got.Path != tt.want {
				t.Fatalf("got %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestResolveSoliditySrcRootRetry(t *testing.T) {
	files := newTestFiles("src/interfaces/IToken.sol", "src/Token.sol")
	r := New(files, Options{SoliditySrcPath: "src"})

	// "../interfaces/IToken.sol" from src/Token.sol computes to
	// interfaces/IToken.sol, which is absent; the retry substitutes
	// the source root and finds src/interfaces/IToken.sol.
	got := r.ResolveSolidity("src/Token.sol", "../interfaces/IToken.sol")
	if got.Path != "src/interfaces/IToken.sol" {
		t.Fatalf("got %+v, want src/interfaces/IToken.sol", got)
	}
}
