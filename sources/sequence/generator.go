// Package sequence allocates per-unit identifiers of the form YYYYMM followed by a counter.
//
// Counters live only in process memory and start at 100 for every year-month seen in a run. The
// identifier a unit receives therefore depends on the order units are processed in: re-running
// over a reordered input reassigns identifiers. They are aggregation keys for one run, not
// stable references.
package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const firstCounter = 100

var ErrInvalidDateFormat = errors.New("invalid publish date format")

type Generator struct {
	counters map[string]int
}

func NewGenerator() *Generator {
	return &Generator{counters: make(map[string]int)}
}

// Next returns the identifier for a unit published on publishDate (YYYY-MM-DD). The counter is
// not re-padded once it passes 999.
func (g *Generator) Next(publishDate string) (string, error) {
	yearMonth, err := YearMonth(publishDate)
	if err != nil {
		return "", err
	}

	counter, seen := g.counters[yearMonth]
	if seen {
		counter++
	} else {
		counter = firstCounter
	}
	g.counters[yearMonth] = counter

	return yearMonth + strconv.Itoa(counter), nil
}

// YearMonth extracts the YYYYMM prefix from a YYYY-MM-DD date.
func YearMonth(publishDate string) (string, error) {
	parts := strings.Split(publishDate, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, publishDate)
	}
	for _, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, publishDate)
		}
	}
	return parts[0] + parts[1], nil
}

// Period returns the year-month bucket of an identifier produced by Next.
func Period(id string) string {
	if len(id) < 6 {
		return id
	}
	return id[:6]
}
