package textstat

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// WeightedChoice picks one option from weighted choices. Weights need
// not sum to 1. Zero or negative total weight falls back to the first
// option so callers never receive a zero value for a non-empty input.
func WeightedChoice[T any](options []T, weights []float64) T {
	var zero T
	if len(options) == 0 {
		return zero
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 || len(weights) != len(options) {
		return options[0]
	}

	target := rand.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// RandomTime returns a uniformly random time in [start, end). If end
// is zero it defaults to now; if start is zero it defaults to one
// year before end.
func RandomTime(start, end time.Time) time.Time {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(-1, 0, 0)
	}
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(rand.Int64N(int64(span))))
}

var (
	firstNames = []string{"john", "jane", "admin", "root", "dev", "mike", "sarah", "alex", "chris", "dana"}
	lastNames  = []string{"smith", "doe", "johnson", "williams", "ops", "developer", "chen", "garcia"}

	hostPrefixes = []string{"web", "app", "db", "api", "prod", "dev", "staging", "worker", "cache", "mail"}
	hostSuffixes = []string{"server", "node", "host", "box", "instance"}
)

// RandomUsername produces a realistic unix account name.
func RandomUsername() string {
	first := firstNames[rand.IntN(len(firstNames))]
	last := lastNames[rand.IntN(len(lastNames))]
	switch rand.IntN(5) {
	case 0:
		return first
	case 1:
		return first + last
	case 2:
		return first + "." + last
	case 3:
		return first + "_" + last
	default:
		return fmt.Sprintf("%s%d", first, rand.IntN(99)+1)
	}
}

// RandomHostname produces a realistic machine hostname.
func RandomHostname() string {
	prefix := hostPrefixes[rand.IntN(len(hostPrefixes))]
	switch rand.IntN(3) {
	case 0:
		return fmt.Sprintf("%s-%s-%02d", prefix, hostSuffixes[rand.IntN(len(hostSuffixes))], rand.IntN(99)+1)
	case 1:
		return fmt.Sprintf("%s%d", prefix, rand.IntN(99)+1)
	default:
		return fmt.Sprintf("%s-%d", prefix, rand.IntN(900)+100)
	}
}

// RandomPrivateIP produces an address from one of the RFC1918 ranges.
func RandomPrivateIP() string {
	switch rand.IntN(3) {
	case 0:
		return fmt.Sprintf("10.%d.%d.%d", rand.IntN(256), rand.IntN(256), rand.IntN(254)+1)
	case 1:
		return fmt.Sprintf("172.%d.%d.%d", rand.IntN(16)+16, rand.IntN(256), rand.IntN(254)+1)
	default:
		return fmt.Sprintf("192.168.%d.%d", rand.IntN(256), rand.IntN(254)+1)
	}
}
