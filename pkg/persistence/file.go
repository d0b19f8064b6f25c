// Package persistence writes analysis artifacts to disk and reads
// input documents back.
//
// The on-disk layout follows the historical convention: for an
// identifier such as a repository name, results land in
// <dir>/<identifier>_dependency_analysis.json and the standalone
// graph in <dir>/<identifier>_dependency_graph.json. Rendered
// visualizations use the format as extension.
package persistence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"

	"github.com/drips-network/gardener-sub000/pkg/analysis"
)

// FileStore saves analysis artifacts under a single output directory.
type FileStore struct {
	dir string
	log *charmlog.Logger
}

// NewFileStore creates a store rooted at dir, creating the directory
// when missing. A nil logger discards output.
func NewFileStore(dir string, logger *charmlog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: logger}, nil
}

// Dir returns the output directory.
func (s *FileStore) Dir() string { return s.dir }

// SaveResult writes the full analysis result and returns the path.
func (s *FileStore) SaveResult(res *analysis.Result, identifier string) (string, error) {
	path := s.outputPath(identifier, "_dependency_analysis.json")
	if err := writeJSONFile(path, res); err != nil {
		return "", err
	}
	s.log.Info("analysis results saved", "path", path)
	return path, nil
}

// SaveGraph writes the node-link graph data on its own, for tools
// that consume the graph without the surrounding result.
func (s *FileStore) SaveGraph(res *analysis.Result, identifier string) (string, error) {
	path := s.outputPath(identifier, "_dependency_graph.json")
	if err := writeJSONFile(path, res.DependencyGraph); err != nil {
		return "", err
	}
	s.log.Info("dependency graph saved", "path", path)
	return path, nil
}

// SaveRender writes a rendered visualization (svg, png, dot) and
// returns the path.
func (s *FileStore) SaveRender(data []byte, identifier, format string) (string, error) {
	path := s.outputPath(identifier, "_dependency_graph."+format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Info("visualization saved", "path", path)
	return path, nil
}

// outputPath joins the identifier and suffix under the store
// directory. Identifiers that already carry the directory prefix are
// used as-is so callers can pass through explicit paths.
func (s *FileStore) outputPath(identifier, suffix string) string {
	if filepath.Dir(identifier) != "." {
		return identifier + suffix
	}
	return filepath.Join(s.dir, identifier) + suffix
}

// WriteResult encodes a result as indented JSON to w.
func WriteResult(res *analysis.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// LoadDocument reads and validates an input document from a file.
func LoadDocument(path string) (*analysis.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := analysis.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadResult reads a previously saved analysis result.
func LoadResult(path string) (*analysis.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &res, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
