package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func window(startH, startM, endH, endM int) *Hours {
	return &Hours{Start: Time{startH, startM}, End: Time{endH, endM}}
}

func TestDayFromInt(t *testing.T) {
	assert.Equal(t, Sunday, DayFromInt(0))
	assert.Equal(t, Wednesday, DayFromInt(3))
	assert.Equal(t, Saturday, DayFromInt(6))
	// Out-of-range values fall through to Saturday.
	assert.Equal(t, Saturday, DayFromInt(7))
	assert.Equal(t, Saturday, DayFromInt(42))
	assert.Equal(t, Saturday, DayFromInt(-1))
}

func TestDayFromWeekday(t *testing.T) {
	assert.Equal(t, Sunday, DayFromWeekday(time.Sunday))
	assert.Equal(t, Friday, DayFromWeekday(time.Friday))
}

func TestHours_String(t *testing.T) {
	assert.Equal(t, "11:00 AM–9:30 PM", window(11, 0, 21, 30).String())

	// Matching formatted labels read as always open, even when the raw
	// values differ.
	assert.Equal(t, "Open 24 hours", window(0, 0, 0, 0).String())
	assert.Equal(t, "Open 24 hours", window(0, 0, 24, 0).String())
}

func TestRestaurant_HoursOn(t *testing.T) {
	r := Restaurant{
		Name: "Casa Nueva",
		Hours: WeeklySchedule{
			Monday: window(11, 0, 21, 0),
			Friday: window(11, 0, 23, 0),
		},
	}

	assert.Equal(t, window(11, 0, 21, 0), r.HoursOn(Monday))
	assert.Nil(t, r.HoursOn(Tuesday))
	assert.True(t, r.IsOpen(Friday))
	assert.False(t, r.IsOpen(Sunday))
}

func TestRestaurant_IsViable(t *testing.T) {
	r := Restaurant{
		Name:  "Union Street Diner",
		Hours: WeeklySchedule{Monday: window(9, 0, 17, 0)},
	}

	// Closed day: never viable.
	assert.False(t, r.IsViable(Tuesday, Time{12, 0}, DefaultTravelBuffer))

	assert.True(t, r.IsViable(Monday, Time{12, 0}, DefaultTravelBuffer))

	// Closing boundary. 16:50+10 lands on minute 60 exactly, which the
	// carry rule leaves as 16:60 — still before the 17:00 close, so the
	// suggestion squeaks through. One more minute carries to 17:01 and is
	// past close.
	assert.True(t, r.IsViable(Monday, Time{16, 50}, DefaultTravelBuffer))
	assert.False(t, r.IsViable(Monday, Time{16, 51}, DefaultTravelBuffer))

	// Closing exactly at arrival time is not viable: strict interval.
	late := Restaurant{Hours: WeeklySchedule{Monday: window(9, 0, 17, 1)}}
	assert.False(t, late.IsViable(Monday, Time{16, 51}, DefaultTravelBuffer))

	// Strict interval at opening: arriving exactly at open is too early.
	assert.False(t, r.IsViable(Monday, Time{8, 50}, DefaultTravelBuffer))
	assert.True(t, r.IsViable(Monday, Time{8, 51}, DefaultTravelBuffer))
}
