package services

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []string{"Milk", "cheese", "Yogurt", "bread", "eggs"}

func newTestPartition(t *testing.T) *CatalogPartition {
	t.Helper()
	p, err := NewCatalogPartition(testCatalog)
	require.NoError(t, err)
	return p
}

func assertPartitioned(t *testing.T, p *CatalogPartition) {
	t.Helper()

	seen := map[string]int{}
	for _, item := range p.Available() {
		seen[item]++
	}
	for _, item := range p.Selected() {
		seen[item]++
	}

	for item, n := range seen {
		require.Equalf(t, 1, n, "item %q appears %d times across available and selected", item, n)
	}
	require.ElementsMatch(t, p.Catalog(), append(p.Available(), p.Selected()...))
}

func TestNewCatalogPartition(t *testing.T) {
	p := newTestPartition(t)

	assert.Equal(t, testCatalog, p.Available())
	assert.Empty(t, p.Selected())
	assert.Equal(t, StateIdle, p.State())
}

func TestNewCatalogPartitionRejectsEmpty(t *testing.T) {
	_, err := NewCatalogPartition(nil)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalogPartition([]string{"  ", ""})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestNewCatalogPartitionFoldsDuplicates(t *testing.T) {
	p, err := NewCatalogPartition([]string{"milk", "eggs", "milk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "eggs"}, p.Catalog())
}

func TestSelectIsCaseInsensitive(t *testing.T) {
	p := newTestPartition(t)

	got, err := p.Select("  milk ")
	require.NoError(t, err)
	assert.Equal(t, "Milk", got)
	assert.Equal(t, []string{"Milk"}, p.Selected())
	assert.NotContains(t, p.Available(), "Milk")
}

func TestSelectMatchesWholeNames(t *testing.T) {
	p := newTestPartition(t)

	_, err := p.Select("mil")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, p.Selected())
}

func TestSelectErrors(t *testing.T) {
	p := newTestPartition(t)

	_, err := p.Select("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.Select("caviar")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Select("eggs")
	require.NoError(t, err)
	_, err = p.Select("EGGS")
	assert.ErrorIs(t, err, ErrAlreadySelected)

	assertPartitioned(t, p)
}

func TestSelectPreservesOrder(t *testing.T) {
	p := newTestPartition(t)

	for _, item := range []string{"eggs", "milk", "bread"} {
		_, err := p.Select(item)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"eggs", "Milk", "bread"}, p.Selected())
}

func TestDeselectResortsAvailable(t *testing.T) {
	p := newTestPartition(t)

	_, err := p.Select("bread")
	require.NoError(t, err)
	require.NoError(t, p.Deselect("bread"))

	// Byte order: upper-case names sort first.
	assert.Equal(t, []string{"Milk", "Yogurt", "bread", "cheese", "eggs"}, p.Available())
	assert.Empty(t, p.Selected())
}

func TestDeselectUnknownItem(t *testing.T) {
	p := newTestPartition(t)

	err := p.Deselect("Milk")
	assert.ErrorIs(t, err, ErrNotSelected)
	assertPartitioned(t, p)
}

func TestSelectDeselectRestoresElements(t *testing.T) {
	p := newTestPartition(t)
	before := p.Available()

	item, err := p.Select("yogurt")
	require.NoError(t, err)
	require.NoError(t, p.Deselect(item))

	assert.ElementsMatch(t, before, p.Available())
	assert.Empty(t, p.Selected())
}

func TestPartitionInvariantUnderRandomOperations(t *testing.T) {
	p := newTestPartition(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		if rng.IntN(2) == 0 {
			item := testCatalog[rng.IntN(len(testCatalog))]
			_, _ = p.Select(item)
		} else if sel := p.Selected(); len(sel) > 0 {
			require.NoError(t, p.Deselect(sel[rng.IntN(len(sel))]))
		}
		assertPartitioned(t, p)
	}
}

func TestValidateForSubmission(t *testing.T) {
	p := newTestPartition(t)

	assert.ErrorIs(t, p.ValidateForSubmission(), ErrEmptyTrip)

	_, err := p.Select("milk")
	require.NoError(t, err)
	assert.NoError(t, p.ValidateForSubmission())
}

func TestValidateForSubmissionStaleItem(t *testing.T) {
	p := newTestPartition(t)
	p.selected = append(p.selected, "caviar")

	err := p.ValidateForSubmission()

	var stale *StaleItemError
	require.True(t, errors.As(err, &stale))
	assert.Equal(t, "caviar", stale.Item)
	assert.Equal(t, KindState, Classify(err))
}

func TestResetAfterTrip(t *testing.T) {
	p := newTestPartition(t)

	for _, item := range []string{"bread", "eggs"} {
		_, err := p.Select(item)
		require.NoError(t, err)
	}
	require.NoError(t, p.Deselect("bread"))

	p.ResetAfterTrip()

	assert.Empty(t, p.Selected())
	assert.Equal(t, testCatalog, p.Available())
}

func TestSubmissionStateMachine(t *testing.T) {
	p := newTestPartition(t)

	_, err := p.BeginSubmission()
	assert.ErrorIs(t, err, ErrEmptyTrip)
	assert.Equal(t, StateIdle, p.State())

	_, err = p.Select("milk")
	require.NoError(t, err)

	items, err := p.BeginSubmission()
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk"}, items)
	assert.Equal(t, StateSubmitting, p.State())

	_, err = p.Select("eggs")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, p.Deselect("Milk"), ErrBusy)
	_, err = p.BeginSubmission()
	assert.ErrorIs(t, err, ErrBusy)

	p.EndSubmission(false)
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, []string{"Milk"}, p.Selected())

	_, err = p.BeginSubmission()
	require.NoError(t, err)
	p.EndSubmission(true)
	assert.Empty(t, p.Selected())
	assert.Equal(t, testCatalog, p.Available())
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := newTestPartition(t)

	avail := p.Available()
	avail[0] = "changed"
	assert.False(t, slices.Contains(p.Available(), "changed"))
}

func TestSuggest(t *testing.T) {
	p := newTestPartition(t)
	_, err := p.Select("cheese")
	require.NoError(t, err)

	assert.Equal(t, []string{"Milk", "Yogurt", "bread", "eggs"}, p.Suggest(""))
	assert.Equal(t, []string{"Yogurt"}, p.Suggest("GUR"))
	assert.Empty(t, p.Suggest("chee"))
}
