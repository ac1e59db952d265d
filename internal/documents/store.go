package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

var ErrDocumentNotFound = errors.New("document not found")

const previewRunes = 200

// DocumentInfo is one dataset listing row.
type DocumentInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	SizeHuman string `json:"size_human"`
	Preview   string `json:"preview"`
}

type DatasetStats struct {
	TotalDocuments int     `json:"total_documents"`
	TotalBytes     int64   `json:"total_bytes"`
	AverageBytes   float64 `json:"average_bytes"`
}

// Store keeps uploaded documents as plain files in one flat directory.
// Text is extracted on read, the files on disk stay untouched.
type Store struct {
	dir    string
	logger *logger_i.Logger
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger_i.NewLogger("DocumentStore"),
	}, nil
}

// Save writes an uploaded file into the store. The name is flattened to its
// base so uploads cannot escape the data directory.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (DocumentInfo, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == "/" || name == "" {
		return DocumentInfo{}, fmt.Errorf("%w: unusable filename %q", searchModel.ErrInvalidConfiguration, filename)
	}
	if docType(name) == typeUnsupported {
		return DocumentInfo{}, fmt.Errorf("%w: unsupported file type %q", searchModel.ErrInvalidConfiguration, filepath.Ext(name))
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		s.logger.Error("Error creating document file", "name", name, "error", err)
		return DocumentInfo{}, fmt.Errorf("saving %s: %w", name, err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		s.logger.Error("Error writing document file", "name", name, "error", err)
		return DocumentInfo{}, fmt.Errorf("saving %s: %w", name, err)
	}

	s.logger.Info("Document saved", "name", name, "bytes", written)
	return DocumentInfo{
		Name:      name,
		SizeBytes: written,
		SizeHuman: humanSize(written),
	}, nil
}

// List returns every stored document with a short content preview. A file
// that fails extraction still shows up, just without the preview.
func (s *Store) List(ctx context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	var infos []DocumentInfo
	for _, e := range entries {
		if e.IsDir() || docType(e.Name()) == typeUnsupported {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}

		preview := ""
		if text, err := extractText(filepath.Join(s.dir, e.Name())); err == nil {
			preview = truncateRunes(text, previewRunes)
		} else {
			s.logger.Error("Preview extraction failed", "name", e.Name(), "error", err)
		}

		infos = append(infos, DocumentInfo{
			Name:      e.Name(),
			SizeBytes: fi.Size(),
			SizeHuman: humanSize(fi.Size()),
			Preview:   preview,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Content returns the full extracted text of one document.
func (s *Store) Content(ctx context.Context, filename string) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	text, err := extractText(path)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filename, err)
	}
	return text, nil
}

func (s *Store) Delete(ctx context.Context, filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting %s: %w", filename, err)
	}
	s.logger.Info("Document deleted", "name", filepath.Base(filename))
	return nil
}

func (s *Store) Stats(ctx context.Context) (DatasetStats, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return DatasetStats{}, err
	}

	stats := DatasetStats{TotalDocuments: len(infos)}
	for _, info := range infos {
		stats.TotalBytes += info.SizeBytes
	}
	if stats.TotalDocuments > 0 {
		stats.AverageBytes = float64(stats.TotalBytes) / float64(stats.TotalDocuments)
	}
	return stats, nil
}

// Snapshot extracts every document for an index build. The returned slice is
// a point-in-time copy, later uploads do not leak into a running build.
func (s *Store) Snapshot(ctx context.Context) ([]searchModel.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	var docs []searchModel.Document
	for _, e := range entries {
		if e.IsDir() || docType(e.Name()) == typeUnsupported {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		text, err := extractText(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Error("Skipping unreadable document", "name", e.Name(), "error", err)
			continue
		}
		docs = append(docs, searchModel.Document{
			Name:      e.Name(),
			Text:      text,
			SizeBytes: fi.Size(),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *Store) resolve(filename string) (string, error) {
	name := filepath.Base(filename)
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return "", fmt.Errorf("checking %s: %w", name, err)
	}
	return path, nil
}

func truncateRunes(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

func humanSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
