// Package suggest picks which restaurant to show next: it filters the
// catalog down to currently-viable candidates, shuffles them, and walks the
// queue as the user rejects suggestions.
package suggest

import (
	"math/rand"
	"sort"

	"chewsy/internal/schedule"
)

// Candidates returns the catalog entries viable at the given day and time,
// in catalog order.
func Candidates(catalog []schedule.Restaurant, day schedule.Day, t schedule.Time, buffer int) []schedule.Restaurant {
	var out []schedule.Restaurant
	for _, r := range catalog {
		if r.IsViable(day, t, buffer) {
			out = append(out, r)
		}
	}
	return out
}

// Shuffle performs an in-place Fisher-Yates shuffle, drawing each index
// uniformly from the shrinking head of the slice and swapping it into the
// current tail slot. With a uniform source every permutation is equally
// likely. The queue is later consumed from the tail, the slot the shuffle
// last filled.
func Shuffle(rng *rand.Rand, list []schedule.Restaurant) {
	n := len(list)
	for i := 0; i < n; i++ {
		j := n - i
		idx := rng.Intn(j)
		list[idx], list[j-1] = list[j-1], list[idx]
	}
}

// Row is one line of the tabulated all-restaurants view.
type Row struct {
	Name   string
	Hours  string
	Viable bool
}

// closedLabel is shown in the listing for a day with no open window.
const closedLabel = "Closed today"

// Listing builds the display rows for every catalog entry, closed or not,
// sorted by name ascending and tagged with a live viability flag. Viable
// entries are not grouped ahead of the rest; the sort key is the name
// alone.
func Listing(catalog []schedule.Restaurant, day schedule.Day, t schedule.Time, buffer int) []Row {
	rows := make([]Row, 0, len(catalog))
	for _, r := range catalog {
		display := closedLabel
		if h := r.HoursOn(day); h != nil {
			display = h.String()
		}
		rows = append(rows, Row{
			Name:   r.Name,
			Hours:  display,
			Viable: r.IsViable(day, t, buffer),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}
