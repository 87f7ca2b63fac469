package relation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	apperrors "relation-kg/backend/pkg/errors"
)

// ============================================================================
// Record CRUD
//
// Each operation reads the full file, mutates in memory and rewrites the file.
// Ids passed to Get/Update/Delete are matched against the ids of this read;
// an id obtained before another mutation may now point at a different record.
// ============================================================================

// Get returns the record that currently has the given id
func (s *Store) Get(ctx context.Context, id int) (*Record, error) {
	records, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil, apperrors.NewNotFound(constants.ResourceRelation, strconv.Itoa(id))
	}
	rec := records[idx]
	return &rec, nil
}

// Create appends a new relation and persists the full set
func (s *Store) Create(ctx context.Context, f Fields) (*Record, error) {
	clean, err := f.validate()
	if err != nil {
		return nil, err
	}

	records, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	rec := Record{
		Person1:       clean.Person1,
		SmallRelation: clean.SmallRelation,
		BigRelation:   clean.BigRelation,
		Person2:       clean.Person2,
	}
	records = append(records, rec)

	if err := s.Write(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to create relation: %w", err)
	}

	// Position of the appended row once the compacted file is read back
	rec.ID = len(records)

	s.logger.Info("Relation created",
		zap.String("person1", rec.Person1),
		zap.String("big_relation", rec.BigRelation),
		zap.String("small_relation", rec.SmallRelation),
		zap.String("person2", rec.Person2),
	)
	return &rec, nil
}

// Update merges the non-nil fields of p into the record with the given id
func (s *Store) Update(ctx context.Context, id int, p Patch) (*Record, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	records, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(records, id)
	if idx < 0 {
		return nil, apperrors.NewNotFound(constants.ResourceRelation, strconv.Itoa(id))
	}
	records[idx] = p.apply(records[idx])

	if err := s.Write(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to update relation %d: %w", id, err)
	}

	// The rewrite compacts blank and short lines, so ids shift to record order
	updated := records[idx]
	updated.ID = idx + 1

	s.logger.Info("Relation updated", zap.Int("id", id), zap.Int("new_id", updated.ID))
	return &updated, nil
}

// Delete removes the record with the given id
func (s *Store) Delete(ctx context.Context, id int) error {
	records, err := s.Read(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, id)
	if idx < 0 {
		return apperrors.NewNotFound(constants.ResourceRelation, strconv.Itoa(id))
	}
	records = append(records[:idx], records[idx+1:]...)

	if err := s.Write(ctx, records); err != nil {
		return fmt.Errorf("failed to delete relation %d: %w", id, err)
	}

	s.logger.Info("Relation deleted", zap.Int("id", id))
	return nil
}

// DeleteByPerson removes every record naming the person on either side and
// returns how many were removed
func (s *Store) DeleteByPerson(ctx context.Context, name string) (int, error) {
	records, err := s.Read(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Involves(name) {
			kept = append(kept, r)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, apperrors.NewNotFound(constants.ResourcePerson, name)
	}

	if err := s.Write(ctx, kept); err != nil {
		return 0, fmt.Errorf("failed to delete relations of %s: %w", name, err)
	}

	s.logger.Info("Relations of person deleted",
		zap.String("person", name),
		zap.Int("removed", removed),
	)
	return removed, nil
}

func indexOf(records []Record, id int) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ============================================================================
// Field validation
// ============================================================================

func (f Fields) validate() (Fields, error) {
	out := Fields{
		Person1:       strings.TrimSpace(f.Person1),
		SmallRelation: strings.TrimSpace(f.SmallRelation),
		BigRelation:   strings.TrimSpace(f.BigRelation),
		Person2:       strings.TrimSpace(f.Person2),
	}
	checks := []struct {
		name  string
		value string
	}{
		{"person1", out.Person1},
		{"small_relation", out.SmallRelation},
		{"big_relation", out.BigRelation},
		{"person2", out.Person2},
	}
	for _, c := range checks {
		if err := checkField(c.name, c.value); err != nil {
			return Fields{}, err
		}
	}
	return out, nil
}

func (p *Patch) validate() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"person1", p.Person1},
		{"small_relation", p.SmallRelation},
		{"big_relation", p.BigRelation},
		{"person2", p.Person2},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if err := checkField(f.name, *f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p Patch) apply(r Record) Record {
	if p.Person1 != nil {
		r.Person1 = *p.Person1
	}
	if p.SmallRelation != nil {
		r.SmallRelation = *p.SmallRelation
	}
	if p.BigRelation != nil {
		r.BigRelation = *p.BigRelation
	}
	if p.Person2 != nil {
		r.Person2 = *p.Person2
	}
	return r
}

// checkField rejects values that would not survive a write/read round trip
func checkField(name, value string) error {
	if value == "" {
		return apperrors.NewMissingField(name)
	}
	if strings.Contains(value, constants.FieldDelimiter) || strings.ContainsAny(value, "\r\n") {
		return apperrors.NewValidation(name, fmt.Sprintf("field %s must not contain '%s' or line breaks", name, constants.FieldDelimiter))
	}
	return nil
}
