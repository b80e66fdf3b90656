package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze the extraction
// date via SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for date stamping. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ExtractionDate returns today's date formatted as it appears in the
// datauttaksdato property.
func ExtractionDate() string {
	return clock.Now().Format("2006-01-02")
}
