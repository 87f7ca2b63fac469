package stats

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"relation-kg/backend/internal/relation"
)

// Overview summarises the current relation set
type Overview struct {
	TotalRelations      int `json:"total_relations"`
	TotalPersons        int `json:"total_persons"`
	TotalBigRelations   int `json:"total_big_relations"`
	TotalSmallRelations int `json:"total_small_relations"`
}

// Summarize counts relations and the distinct persons and labels they use
func Summarize(records []relation.Record) Overview {
	persons := map[string]struct{}{}
	big := map[string]struct{}{}
	small := map[string]struct{}{}
	for _, r := range records {
		persons[r.Person1] = struct{}{}
		persons[r.Person2] = struct{}{}
		big[r.BigRelation] = struct{}{}
		small[r.SmallRelation] = struct{}{}
	}
	return Overview{
		TotalRelations:      len(records),
		TotalPersons:        len(persons),
		TotalBigRelations:   len(big),
		TotalSmallRelations: len(small),
	}
}

// RelationTypes is the label catalog offered to editing clients
type RelationTypes struct {
	BigRelations   []string `json:"big_relations"`
	SmallRelations []string `json:"small_relations"`
}

// Distributions reads the two static frequency tables
type Distributions struct {
	BigPath   string
	SmallPath string
}

// Big returns the coarse relation distribution
func (d Distributions) Big() ([]Entry, error) {
	return ReadDistribution(d.BigPath)
}

// Small returns the fine relation distribution
func (d Distributions) Small() ([]Entry, error) {
	return ReadDistribution(d.SmallPath)
}

// Catalog reads both tables concurrently and returns their labels, with the
// coarse prefix stripped from fine labels.
//
// A table that cannot be read contributes an empty list; the other table is
// still returned. The returned error joins the failures of both tables.
func (d Distributions) Catalog(ctx context.Context) (*RelationTypes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		big, small       []Entry
		bigErr, smallErr error
		g                errgroup.Group
	)
	g.Go(func() error {
		big, bigErr = d.Big()
		return nil
	})
	g.Go(func() error {
		small, smallErr = d.Small()
		return nil
	})
	_ = g.Wait()

	types := &RelationTypes{
		BigRelations:   make([]string, 0, len(big)),
		SmallRelations: make([]string, 0, len(small)),
	}
	for _, e := range big {
		types.BigRelations = append(types.BigRelations, e.Relation)
	}
	for _, e := range small {
		types.SmallRelations = append(types.SmallRelations, FineLabel(e.Relation))
	}
	return types, errors.Join(bigErr, smallErr)
}
