package stats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/internal/utils"
	apperrors "relation-kg/backend/pkg/errors"
)

// Entry is one row of a relation frequency table
type Entry struct {
	Relation string `json:"relation"`
	Count    int    `json:"count"`
}

// ReadDistribution parses a header-less "label,count" file.
//
// Lines that are blank or do not hold exactly one delimiter are skipped. A
// count that is not a non-negative integer fails the whole file, since these
// files are generated assets and a bad count means the file is damaged.
func ReadDistribution(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewPersistence("read", path, err)
	}

	entries := []Entry{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, constants.FieldDelimiter)
		if len(parts) != 2 {
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count < 0 {
			return nil, apperrors.NewPersistence("parse", path,
				fmt.Errorf("line %d: invalid count %q", lineNo, parts[1]))
		}
		entries = append(entries, Entry{Relation: parts[0], Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewPersistence("read", path, err)
	}
	return entries, nil
}

// WriteDistribution replaces path with one "label,count" line per entry
func WriteDistribution(path string, entries []Entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s%s%d\n", e.Relation, constants.FieldDelimiter, e.Count)
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewPersistence("write", path, err)
	}
	return nil
}

// BuildDistributions counts coarse labels and "coarse/fine" compounds across
// records, most frequent first
func BuildDistributions(records []relation.Record) (big, small []Entry) {
	bigCounts := map[string]int{}
	smallCounts := map[string]int{}
	for _, r := range records {
		bigCounts[r.BigRelation]++
		smallCounts[r.BigRelation+constants.CompoundSeparator+r.SmallRelation]++
	}
	return sortedEntries(bigCounts), sortedEntries(smallCounts)
}

func sortedEntries(counts map[string]int) []Entry {
	out := make([]Entry, 0, len(counts))
	for label, n := range counts {
		out = append(out, Entry{Relation: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Relation < out[j].Relation
	})
	return out
}

// FineLabel strips an optional "coarse/" prefix from a fine distribution label
func FineLabel(label string) string {
	if !strings.Contains(label, constants.CompoundSeparator) {
		return label
	}
	return strings.Split(label, constants.CompoundSeparator)[1]
}
