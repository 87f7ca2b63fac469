package relation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbered(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{ID: i + 1, Person1: fmt.Sprintf("p%d", i+1), SmallRelation: "朋友", BigRelation: "社交", Person2: "q"}
	}
	return out
}

func TestApply_Pagination(t *testing.T) {
	records := numbered(45)

	tests := []struct {
		page      int
		wantFirst int
		wantLen   int
	}{
		{1, 1, 20},
		{2, 21, 20},
		{3, 41, 5},
		{4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page := Apply(records, Query{Page: tt.page, PageSize: 20})
			assert.Equal(t, 45, page.Total)
			assert.Len(t, page.Items, tt.wantLen)
			assert.NotNil(t, page.Items)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, page.Items[0].ID)
			}
		})
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	records := numbered(3)

	assert.Empty(t, Paginate(records, 0, 20))
	assert.Empty(t, Paginate(records, 1, 0))
	assert.Empty(t, Paginate(nil, 1, 20))
	assert.Empty(t, Paginate(records, 1<<62, 1<<62))
	assert.Len(t, Paginate(records, 1, 1<<62), 3)
}

func TestFilter_SearchIsCaseSensitiveSubstring(t *testing.T) {
	records := []Record{
		{ID: 1, Person1: "Li Lei", SmallRelation: "同学", BigRelation: "学校", Person2: "Han Meimei"},
		{ID: 2, Person1: "li hua", SmallRelation: "同学", BigRelation: "学校", Person2: "wang"},
	}

	got := Filter(records, "Li", "")
	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilter_SearchMatchesAnyField(t *testing.T) {
	records := []Record{
		{ID: 1, Person1: "A", SmallRelation: "母亲", BigRelation: "家庭", Person2: "B"},
		{ID: 2, Person1: "C", SmallRelation: "同事", BigRelation: "工作", Person2: "D"},
		{ID: 3, Person1: "E", SmallRelation: "朋友", BigRelation: "社交", Person2: "AB"},
	}

	assert.Equal(t, []int{1, 3}, ids(Filter(records, "B", "")))
	assert.Equal(t, []int{2}, ids(Filter(records, "工", "")))
	assert.Equal(t, []int{1}, ids(Filter(records, "母", "")))
}

func TestApply_SearchThenCategory(t *testing.T) {
	records := []Record{
		{ID: 1, Person1: "张三", SmallRelation: "父亲", BigRelation: "家庭", Person2: "张四"},
		{ID: 2, Person1: "张三", SmallRelation: "同事", BigRelation: "工作", Person2: "李四"},
		{ID: 3, Person1: "王五", SmallRelation: "父亲", BigRelation: "家庭", Person2: "王六"},
	}

	page := Apply(records, Query{Search: "张", BigRelation: "家庭", Page: 1, PageSize: 20})
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []int{1}, ids(page.Items))

	page = Apply(records, Query{BigRelation: "家", Page: 1, PageSize: 20})
	assert.Equal(t, 0, page.Total, "category filter is exact, not substring")
}
