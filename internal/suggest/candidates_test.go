package suggest

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chewsy/internal/schedule"
)

func open(startH, endH int) schedule.WeeklySchedule {
	return schedule.WeeklySchedule{
		Monday: &schedule.Hours{
			Start: schedule.Time{Hours: startH},
			End:   schedule.Time{Hours: endH},
		},
	}
}

func testCatalog() []schedule.Restaurant {
	return []schedule.Restaurant{
		{Name: "Casa Nueva", Hours: open(11, 21)},
		{Name: "Bagel Street Deli", Hours: open(7, 14)}, // closed by evening
		{Name: "Union Street Diner", Hours: open(0, 24)},
		{Name: "Ginger Asian Kitchen"}, // closed Mondays
	}
}

func TestCandidates_FiltersAndKeepsOrder(t *testing.T) {
	// 18:00 Monday: Bagel Street is already closed, Ginger never opens.
	got := Candidates(testCatalog(), schedule.Monday, schedule.Time{Hours: 18}, schedule.DefaultTravelBuffer)

	require.Len(t, got, 2)
	assert.Equal(t, "Casa Nueva", got[0].Name)
	assert.Equal(t, "Union Street Diner", got[1].Name)
}

func TestCandidates_EmptyWhenEverythingClosed(t *testing.T) {
	got := Candidates(testCatalog(), schedule.Tuesday, schedule.Time{Hours: 12}, schedule.DefaultTravelBuffer)
	assert.Empty(t, got)
}

func TestShuffle_PreservesElements(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	list := testCatalog()

	Shuffle(rng, list)

	require.Len(t, list, 4)
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"Bagel Street Deli", "Casa Nueva", "Ginger Asian Kitchen", "Union Street Diner"}, names)
}

func TestShuffle_RoughlyUniform(t *testing.T) {
	// Each element should land in each position about 1/n of the time.
	rng := rand.New(rand.NewSource(42))
	const trials = 6000
	counts := make(map[string]int)

	for i := 0; i < trials; i++ {
		list := testCatalog()
		Shuffle(rng, list)
		counts[list[0].Name]++
	}

	for name, n := range counts {
		assert.InDelta(t, trials/4, n, trials/20, "first-position count for %s", name)
	}
	assert.Len(t, counts, 4, "every element should reach the first position")
}

func TestShuffle_Empty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.NotPanics(t, func() { Shuffle(rng, nil) })
}

func TestListing(t *testing.T) {
	rows := Listing(testCatalog(), schedule.Monday, schedule.Time{Hours: 18}, schedule.DefaultTravelBuffer)

	require.Len(t, rows, 4)
	// Name-ascending, viable entries not grouped first.
	assert.Equal(t, "Bagel Street Deli", rows[0].Name)
	assert.Equal(t, "Casa Nueva", rows[1].Name)
	assert.Equal(t, "Ginger Asian Kitchen", rows[2].Name)
	assert.Equal(t, "Union Street Diner", rows[3].Name)

	assert.False(t, rows[0].Viable)
	assert.True(t, rows[1].Viable)
	assert.False(t, rows[2].Viable)
	assert.True(t, rows[3].Viable)

	assert.Equal(t, "7:00 AM–2:00 PM", rows[0].Hours)
	assert.Equal(t, "Closed today", rows[2].Hours)
	assert.Equal(t, "Open 24 hours", rows[3].Hours)
}
