package relation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	apperrors "relation-kg/backend/pkg/errors"
)

const header = "人物1,小类关系,大类关系,人物2\n"

func newTestStore(t *testing.T, content string, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "person_rel_kg.data")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return NewStore(path, opts...)
}

func sampleRecords() []Record {
	return []Record{
		{Person1: "贾宝玉", SmallRelation: "母亲", BigRelation: "家庭", Person2: "王夫人"},
		{Person1: "贾宝玉", SmallRelation: "表妹", BigRelation: "亲戚", Person2: "林黛玉"},
		{Person1: "Li Lei", SmallRelation: "同学", BigRelation: "学校", Person2: "Han Meimei"},
	}
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")

	require.NoError(t, store.Write(ctx, sampleRecords()))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, r := range got {
		want := sampleRecords()[i]
		want.ID = i + 1
		assert.Equal(t, want, r)
	}

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, header+
		"贾宝玉,母亲,家庭,王夫人\n"+
		"贾宝玉,表妹,亲戚,林黛玉\n"+
		"Li Lei,同学,学校,Han Meimei\n", string(raw))
}

func TestStore_Read_MissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t, "")

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestStore_Read_HeaderOnly(t *testing.T) {
	store := newTestStore(t, header)

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Read_StripsBOMAndCRLF(t *testing.T) {
	store := newTestStore(t, "\ufeff人物1,小类关系,大类关系,人物2\r\nA,母亲,家庭,B\r\n")

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Record{ID: 1, Person1: "A", SmallRelation: "母亲", BigRelation: "家庭", Person2: "B"}, got[0])
}

func TestStore_Read_ShortRowsDroppedExtraColumnsIgnored(t *testing.T) {
	store := newTestStore(t, header+"A,B,C\nA,母亲,家庭,B,extra\n")

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Person2)
}

func TestStore_Read_IDPolicies(t *testing.T) {
	content := header + "A,r,R,B\n\nC,r,R,D\nbroken\nE,r,R,F\n"

	t.Run("raw line ordinal", func(t *testing.T) {
		store := newTestStore(t, content)
		got, err := store.Read(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int{1, 3, 5}, ids(got))
	})

	t.Run("parsed record ordinal", func(t *testing.T) {
		store := newTestStore(t, content, WithIDPolicy(IDFromRecord))
		got, err := store.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, ids(got))
	})
}

func TestParseIDPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    IDPolicy
		wantErr bool
	}{
		{"", IDFromLine, false},
		{"line", IDFromLine, false},
		{"record", IDFromRecord, false},
		{"Record", IDFromLine, true},
	}
	for _, tt := range tests {
		got, err := ParseIDPolicy(tt.name)
		if tt.wantErr {
			assert.True(t, apperrors.IsValidation(err), tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	rec, err := store.Create(ctx, Fields{Person1: " 薛宝钗 ", SmallRelation: "母亲", BigRelation: "家庭", Person2: "薛姨妈"})
	require.NoError(t, err)
	assert.Equal(t, 4, rec.ID)

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, Record{ID: 4, Person1: "薛宝钗", SmallRelation: "母亲", BigRelation: "家庭", Person2: "薛姨妈"}, got[3])
}

func TestStore_Create_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")

	tests := []struct {
		name   string
		fields Fields
		field  string
	}{
		{"missing person1", Fields{SmallRelation: "a", BigRelation: "b", Person2: "c"}, "person1"},
		{"blank small relation", Fields{Person1: "x", SmallRelation: "  ", BigRelation: "b", Person2: "c"}, "small_relation"},
		{"missing person2", Fields{Person1: "x", SmallRelation: "a", BigRelation: "b"}, "person2"},
		{"delimiter in field", Fields{Person1: "x,y", SmallRelation: "a", BigRelation: "b", Person2: "c"}, "person1"},
		{"newline in field", Fields{Person1: "x", SmallRelation: "a", BigRelation: "b\nc", Person2: "c"}, "big_relation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.fields)
			require.Error(t, err)
			var verr *apperrors.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "validation failures must not touch the file")
}

func TestStore_Update_MergesPartialFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	newSmall := "姨妈"
	rec, err := store.Update(ctx, 1, Patch{SmallRelation: &newSmall})
	require.NoError(t, err)
	assert.Equal(t, Record{ID: 1, Person1: "贾宝玉", SmallRelation: "姨妈", BigRelation: "家庭", Person2: "王夫人"}, *rec)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)
}

func TestStore_Update_ReturnsIDAfterCompaction(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, header+"\nA,r,R,B\n")

	before, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{2}, ids(before))

	name := "C"
	rec, err := store.Update(ctx, 2, Patch{Person2: &name})
	require.NoError(t, err)

	after, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, after[0].ID, rec.ID)
	assert.Equal(t, after[0], *rec)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Person2)
}

func TestStore_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	name := "x"
	_, err := store.Update(ctx, 99, Patch{Person1: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_Update_RejectsEmptyField(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	empty := ""
	_, err := store.Update(ctx, 1, Patch{Person2: &empty})
	assert.True(t, apperrors.IsValidation(err))
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	require.NoError(t, store.Delete(ctx, 2))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "王夫人", got[0].Person2)
	assert.Equal(t, "Li Lei", got[1].Person1)
	assert.Equal(t, 2, got[1].ID, "ids after the removed row shift down")
}

func TestStore_Delete_NotFoundLeavesFileUnchanged(t *testing.T) {
	ctx := context.Background()
	content := header + "A,r,R,B\n\nC,r,R,D\n"
	store := newTestStore(t, content)

	err := store.Delete(ctx, 2) // the blank line's ordinal
	assert.True(t, apperrors.IsNotFound(err))

	raw, readErr := os.ReadFile(store.Path())
	require.NoError(t, readErr)
	assert.Equal(t, content, string(raw))
}

func TestStore_DeleteByPerson(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))

	removed, err := store.DeleteByPerson(ctx, "贾宝玉")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Li Lei", got[0].Person1)
}

func TestStore_DeleteByPerson_ExactMatchOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")
	require.NoError(t, store.Write(ctx, sampleRecords()))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	_, err = store.DeleteByPerson(ctx, "贾宝")
	assert.True(t, apperrors.IsNotFound(err))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_Write_FailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := NewStore(filepath.Join(blocker, "rel.data"), WithLogger(zap.NewNop()))

	err := store.Write(context.Background(), sampleRecords())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePersistence))
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newTestStore(t, header+"A,r,R,B\n")

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func ids(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
