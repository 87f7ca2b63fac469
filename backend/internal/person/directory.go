package person

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"relation-kg/backend/internal/relation"
)

// RelationStore is the part of the relation store the directory derives persons from
type RelationStore interface {
	Read(ctx context.Context) ([]relation.Record, error)
	DeleteByPerson(ctx context.Context, name string) (int, error)
}

// ImageMap tracks which stored file is the portrait of each person
type ImageMap interface {
	ListAll(ctx context.Context) map[string]string
	Set(ctx context.Context, name, filename string) (string, bool, error)
	Delete(ctx context.Context, name string) (string, bool, error)
}

// ImageFiles stores portrait binaries by filename
type ImageFiles interface {
	Save(filename string, data io.Reader) error
	Open(filename string) (*os.File, os.FileInfo, error)
	Delete(filename string) error
}

// Person is a name referenced by at least one relation, with its portrait if any
type Person struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// Directory is the person view over the relation store. Persons have no rows
// of their own; every call derives them from the current relation file.
type Directory struct {
	relations RelationStore
	images    ImageMap
	files     ImageFiles
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewDirectory creates a person directory
func NewDirectory(relations RelationStore, images ImageMap, files ImageFiles, l *zap.Logger) *Directory {
	return &Directory{
		relations: relations,
		images:    images,
		files:     files,
		logger:    l,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// ListPersons returns every distinct person name, sorted
func (d *Directory) ListPersons(ctx context.Context) ([]string, error) {
	return d.SearchPersons(ctx, "")
}

// ListPersonsWithImages returns every person with its portrait filename
func (d *Directory) ListPersonsWithImages(ctx context.Context) ([]Person, error) {
	names, err := d.ListPersons(ctx)
	if err != nil {
		return nil, err
	}

	imageMap := d.images.ListAll(ctx)
	persons := make([]Person, 0, len(names))
	for _, name := range names {
		p := Person{Name: name}
		if filename, ok := imageMap[name]; ok {
			p.Image = &filename
		}
		persons = append(persons, p)
	}
	return persons, nil
}

// SearchPersons returns the sorted distinct names containing keyword
func (d *Directory) SearchPersons(ctx context.Context, keyword string) ([]string, error) {
	records, err := d.relations.Read(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, r := range records {
		if strings.Contains(r.Person1, keyword) {
			seen[r.Person1] = struct{}{}
		}
		if strings.Contains(r.Person2, keyword) {
			seen[r.Person2] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RelationsOf returns the relations naming the person on either side, in file order
func (d *Directory) RelationsOf(ctx context.Context, name string) ([]relation.Record, error) {
	records, err := d.relations.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := []relation.Record{}
	for _, r := range records {
		if r.Involves(name) {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeletePerson removes every relation of the person, then its portrait.
//
// A person with no relations is not found, even if an orphaned portrait
// mapping exists. Once relations are removed, portrait cleanup failures are
// logged and do not fail the call.
func (d *Directory) DeletePerson(ctx context.Context, name string) (int, error) {
	removed, err := d.relations.DeleteByPerson(ctx, name)
	if err != nil {
		return 0, err
	}

	d.removePortrait(ctx, name)
	return removed, nil
}

func (d *Directory) removePortrait(ctx context.Context, name string) {
	filename, had, err := d.images.Delete(ctx, name)
	if err != nil {
		d.logger.Warn("Failed to remove image mapping after person deletion",
			zap.String("person", name),
			zap.Error(err),
		)
		return
	}
	if !had {
		return
	}
	if err := d.files.Delete(filename); err != nil {
		d.logger.Warn("Failed to remove image file after person deletion",
			zap.String("person", name),
			zap.String("image", filename),
			zap.Error(err),
		)
	}
}
