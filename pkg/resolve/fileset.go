package resolve

import (
	"path"

	"github.com/drips-network/gardener-sub000/pkg/lang"
)

// SourceFile describes one file discovered in the analyzed repository.
// The relative path is the unique key used for graph node identity.
type SourceFile struct {
	RelPath string        `json:"rel_path"`
	AbsPath string        `json:"abs_path,omitempty"`
	Lang    lang.Language `json:"language"`
}

// DiskProber reports whether a repository-relative path exists as a
// regular file on disk. Resolution is otherwise pure over the known
// file set; the prober is the single documented escape hatch that lets
// the JS/TS resolver discover data files (.json/.mjs/.cjs) that the
// repository scan did not list. A nil prober disables on-disk probing.
type DiskProber func(relPath string) bool

// FileSet is the set of known source files, keyed by repository-relative
// path. Iteration order is insertion order so that directory scans and
// their warnings are reproducible across runs.
type FileSet struct {
	order []string
	files map[string]SourceFile
}

// NewFileSet creates a FileSet from the given files, preserving order.
func NewFileSet(files ...SourceFile) *FileSet {
	fs := &FileSet{files: make(map[string]SourceFile, len(files))}
	for _, f := range files {
		fs.Add(f)
	}
	return fs
}

// Add registers a file. Paths are cleaned to their canonical
// slash-separated form. Re-adding an existing path is a no-op.
func (fs *FileSet) Add(f SourceFile) {
	f.RelPath = path.Clean(f.RelPath)
	if _, ok := fs.files[f.RelPath]; ok {
		return
	}
	fs.files[f.RelPath] = f
	fs.order = append(fs.order, f.RelPath)
}

// Has reports whether the cleaned relative path is a known source file.
func (fs *FileSet) Has(relPath string) bool {
	_, ok := fs.files[path.Clean(relPath)]
	return ok
}

// Get returns the file for a relative path.
func (fs *FileSet) Get(relPath string) (SourceFile, bool) {
	f, ok := fs.files[path.Clean(relPath)]
	return f, ok
}

// Paths returns all known relative paths in insertion order.
// The returned slice must not be modified.
func (fs *FileSet) Paths() []string {
	return fs.order
}

// Len returns the number of known files.
func (fs *FileSet) Len() int {
	return len(fs.order)
}

// InDir returns all known files whose parent directory is exactly dir,
// in insertion order. Pass "." for the repository root.
func (fs *FileSet) InDir(dir string) []string {
	dir = path.Clean(dir)
	var found []string
	for _, p := range fs.order {
		if path.Dir(p) == dir {
			found = append(found, p)
		}
	}
	return found
}
