package savedfilter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

// memoryRepo is an in-memory stand-in for the durable key-value store.
type memoryRepo struct {
	sets map[string][]model.SavedFilter
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sets: make(map[string][]model.SavedFilter)}
}

func (r *memoryRepo) Load(_ context.Context, namespace string) ([]model.SavedFilter, error) {
	return append([]model.SavedFilter(nil), r.sets[namespace]...), nil
}

func (r *memoryRepo) Store(_ context.Context, namespace string, filters []model.SavedFilter) error {
	r.sets[namespace] = append([]model.SavedFilter(nil), filters...)
	return nil
}

const ns = "test-client"

func snapshotWithQuery(q string) model.SavedFilterSnapshot {
	v := model.DefaultFilterValues()
	v.SearchQuery = q
	return model.SnapshotFromValues(v)
}

func TestSaveFilterReturnsID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	id, err := svc.SaveFilter(context.Background(), ns, "Mine bedrifter", snapshotWithQuery("oslo"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entry, err := svc.GetFilter(context.Background(), ns, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Mine bedrifter", entry.Name)
	assert.Equal(t, "oslo", entry.Filters.SearchQuery)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestSaveFilterCapsListAtTwenty(t *testing.T) {
	svc := NewService(newMemoryRepo())

	for i := 0; i < 25; i++ {
		_, err := svc.SaveFilter(context.Background(), ns, fmt.Sprintf("filter-%d", i), snapshotWithQuery("q"))
		require.NoError(t, err)
	}

	entries, err := svc.ListFilters(context.Background(), ns)
	require.NoError(t, err)
	require.Len(t, entries, MaxSavedFilters)
	assert.Equal(t, "filter-24", entries[0].Name, "most recent entry sits at index 0")
	assert.Equal(t, "filter-5", entries[len(entries)-1].Name, "oldest surviving entry is the 6th save")
}

func TestUpdateFilterRoundTrip(t *testing.T) {
	svc := NewService(newMemoryRepo())

	id, err := svc.SaveFilter(context.Background(), ns, "original", snapshotWithQuery("a"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateFilter(context.Background(), ns, id, "renamed", snapshotWithQuery("b")))

	entry, err := svc.GetFilter(context.Background(), ns, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "renamed", entry.Name)
	assert.Equal(t, "b", entry.Filters.SearchQuery)
	assert.True(t, !entry.UpdatedAt.Before(entry.CreatedAt), "updatedAt >= createdAt")
}

func TestUpdateFilterUnknownIDIsNoop(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.SaveFilter(context.Background(), ns, "keep", snapshotWithQuery("a"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateFilter(context.Background(), ns, "no-such-id", "x", snapshotWithQuery("b")))

	entries, err := svc.ListFilters(context.Background(), ns)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].Name)
}

func TestRenameFilterLeavesValuesUntouched(t *testing.T) {
	svc := NewService(newMemoryRepo())

	id, err := svc.SaveFilter(context.Background(), ns, "old name", snapshotWithQuery("behold"))
	require.NoError(t, err)

	require.NoError(t, svc.RenameFilter(context.Background(), ns, id, "new name"))

	entry, err := svc.GetFilter(context.Background(), ns, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "new name", entry.Name)
	assert.Equal(t, "behold", entry.Filters.SearchQuery)
}

func TestDeleteFilter(t *testing.T) {
	svc := NewService(newMemoryRepo())

	id, err := svc.SaveFilter(context.Background(), ns, "borte", snapshotWithQuery("x"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFilter(context.Background(), ns, id))

	entry, err := svc.GetFilter(context.Background(), ns, id)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Deleting again is a no-op, not an error.
	require.NoError(t, svc.DeleteFilter(context.Background(), ns, id))
}

func TestGetFilterUnknownIDReturnsNil(t *testing.T) {
	svc := NewService(newMemoryRepo())

	entry, err := svc.GetFilter(context.Background(), ns, "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestHasNameIsCaseInsensitive(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.SaveFilter(context.Background(), ns, "Store Bedrifter", snapshotWithQuery("q"))
	require.NoError(t, err)

	exists, err := svc.HasName(context.Background(), ns, "store bedrifter")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.HasName(context.Background(), ns, "annet navn")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCountActiveFiltersMatchesLiveRule(t *testing.T) {
	svc := NewService(newMemoryRepo())

	v := model.DefaultFilterValues()
	min := 1000.0
	max := 9999.0
	v.Revenue = model.NumericRange{Min: &min, Max: &max}
	v.SearchQuery = "konsern"
	v.IsBankrupt = model.TristateOf(false)

	snap := model.SnapshotFromValues(v)
	assert.Equal(t, model.ActiveFilterCount(v), svc.CountActiveFilters(snap))
	assert.Equal(t, 3, svc.CountActiveFilters(snap))
}

func TestNamespacesAreIsolated(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.SaveFilter(context.Background(), "client-a", "a", snapshotWithQuery("q"))
	require.NoError(t, err)

	entries, err := svc.ListFilters(context.Background(), "client-b")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
