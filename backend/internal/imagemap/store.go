package imagemap

import (
	"bytes"
	"context"
	"os"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"relation-kg/backend/internal/utils"
	apperrors "relation-kg/backend/pkg/errors"
	"relation-kg/backend/pkg/logger"
)

// Store maps person names to stored portrait filenames, persisted as one JSON
// object that is rewritten on every change.
//
// Reads degrade: a missing or unreadable file lists as empty. Mutations refuse
// to run over an unreadable file so a corrupt map is never silently replaced.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates an image map backed by the JSON file at path
func NewStore(path string, l *zap.Logger) *Store {
	if l == nil {
		l = logger.Named("imagemap")
	}
	return &Store{path: path, logger: l}
}

// ListAll returns the full mapping
func (s *Store) ListAll(ctx context.Context) map[string]string {
	m, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Failed to read image map, treating as empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return map[string]string{}
	}
	return m
}

// Set maps name to filename and returns the filename it replaced, if any
func (s *Store) Set(ctx context.Context, name, filename string) (string, bool, error) {
	m, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}

	prev, had := m[name]
	m[name] = filename
	if err := s.save(m); err != nil {
		return "", false, err
	}
	return prev, had, nil
}

// Delete removes the mapping for name and returns the filename it held
func (s *Store) Delete(ctx context.Context, name string) (string, bool, error) {
	m, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}

	prev, had := m[name]
	if !had {
		return "", false, nil
	}
	delete(m, name)
	if err := s.save(m); err != nil {
		return "", false, err
	}
	return prev, true, nil
}

func (s *Store) load(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, apperrors.NewPersistence("read", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}

	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewPersistence("decode", s.path, err)
	}
	return m, nil
}

func (s *Store) save(m map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return apperrors.NewPersistence("encode", s.path, err)
	}

	if err := utils.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewPersistence("write", s.path, err)
	}
	return nil
}
