package relation

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/utils"
	apperrors "relation-kg/backend/pkg/errors"
	"relation-kg/backend/pkg/logger"
)

// maxLineBytes bounds a single row of the relation file
const maxLineBytes = 1 << 20

// Store persists relation records in a header-plus-rows delimited file.
// Every call reads the file from disk; mutations rewrite it completely.
type Store struct {
	path     string
	idPolicy IDPolicy
	logger   *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithIDPolicy overrides the default raw-line id numbering
func WithIDPolicy(p IDPolicy) Option {
	return func(s *Store) { s.idPolicy = p }
}

// WithLogger sets the logger used for mutation events
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a store backed by the file at path
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		idPolicy: IDFromLine,
		logger:   logger.Named("relation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Read loads every record from the backing file in file order.
// A missing file is an empty relation set.
func (s *Store) Read(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, apperrors.NewPersistence("read", s.path, err)
	}
	defer f.Close()

	// The file may have been saved with a UTF-8 BOM by spreadsheet tools
	decoded := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	records, err := parseRecords(decoded, s.idPolicy)
	if err != nil {
		return nil, apperrors.NewPersistence("read", s.path, err)
	}
	return records, nil
}

// Write replaces the backing file with the header followed by records in order.
// Record ids are not written.
func (s *Store) Write(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeRow(&buf, constants.RelationHeader...)
	for _, r := range records {
		writeRow(&buf, r.Person1, r.SmallRelation, r.BigRelation, r.Person2)
	}

	if err := utils.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		s.logger.Error("Failed to write relation file",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return apperrors.NewPersistence("write", s.path, err)
	}
	return nil
}

func parseRecords(r io.Reader, policy IDPolicy) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	records := []Record{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, constants.FieldDelimiter)
		if len(parts) < constants.RelationFieldCount {
			continue
		}

		id := lineNo - 1
		if policy == IDFromRecord {
			id = len(records) + 1
		}
		records = append(records, Record{
			ID:            id,
			Person1:       parts[0],
			SmallRelation: parts[1],
			BigRelation:   parts[2],
			Person2:       parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func writeRow(buf *bytes.Buffer, fields ...string) {
	buf.WriteString(strings.Join(fields, constants.FieldDelimiter))
	buf.WriteByte('\n')
}
