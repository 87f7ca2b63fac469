package relation

import "strings"

// Query describes a list request over the relation set
type Query struct {
	Search      string // substring of any text field, case-sensitive
	BigRelation string // exact coarse relation match
	Page        int    // 1-based
	PageSize    int
}

// Page is one slice of a filtered relation list
type Page struct {
	Items    []Record `json:"data"`
	Total    int      `json:"total"` // matches before pagination
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// Apply filters by search text, then by coarse relation, then slices the page
func Apply(records []Record, q Query) Page {
	filtered := Filter(records, q.Search, q.BigRelation)
	return Page{
		Items:    Paginate(filtered, q.Page, q.PageSize),
		Total:    len(filtered),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// Filter keeps records matching both the search text and the coarse relation.
// Empty criteria match everything.
func Filter(records []Record, search, bigRelation string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if search != "" && !r.contains(search) {
			continue
		}
		if bigRelation != "" && r.BigRelation != bigRelation {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Paginate returns records[(page-1)*size : page*size] clamped to bounds.
// Pages outside the range yield an empty slice.
func Paginate(records []Record, page, size int) []Record {
	if page < 1 || size < 1 {
		return []Record{}
	}
	// compare in page units so huge page numbers cannot overflow the offset
	if len(records) == 0 || page-1 > (len(records)-1)/size {
		return []Record{}
	}
	start := (page - 1) * size
	end := len(records)
	if end-start > size {
		end = start + size
	}
	return records[start:end]
}

func (r Record) contains(s string) bool {
	return strings.Contains(r.Person1, s) ||
		strings.Contains(r.Person2, s) ||
		strings.Contains(r.SmallRelation, s) ||
		strings.Contains(r.BigRelation, s)
}
