// Package period resolves the month-scoped key under which notes and habit
// marks are stored.
package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"daybook/internal/platform/clock"
	apperrors "daybook/internal/platform/errors"
)

// DefaultSeparator joins month name and year, e.g. "October-2025".
const DefaultSeparator = "-"

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the period containing t, in t's own location.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key renders the period as "<MonthName><sep><Year>".
func (p Period) Key(sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	return p.Month.String() + sep + strconv.Itoa(p.Year)
}

// Days returns the number of days in the month, 28 to 31.
func (p Period) Days() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) Contains(day int) bool {
	return day >= 1 && day <= p.Days()
}

// Before reports whether p is an earlier month than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Parse is the inverse of Key. Month names match case-insensitively.
func Parse(key, sep string) (Period, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	key = strings.TrimSpace(key)
	idx := strings.LastIndex(key, sep)
	if idx <= 0 || idx+len(sep) >= len(key) {
		return Period{}, fmt.Errorf("%w: period key %q", apperrors.ErrInvalidInput, key)
	}
	name, yearRaw := key[:idx], key[idx+len(sep):]
	year, err := strconv.Atoi(yearRaw)
	if err != nil || year < 1 {
		return Period{}, fmt.Errorf("%w: period year %q", apperrors.ErrInvalidInput, yearRaw)
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return Period{Year: year, Month: m}, nil
		}
	}
	return Period{}, fmt.Errorf("%w: month name %q", apperrors.ErrInvalidInput, name)
}

// Resolver derives the current period from a clock.
type Resolver struct {
	clock clock.Clock
	sep   string
}

func NewResolver(clk clock.Clock, sep string) *Resolver {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Resolver{clock: clk, sep: sep}
}

func (r *Resolver) Current() Period {
	return Of(r.clock.Now())
}

func (r *Resolver) CurrentKey() string {
	return r.Current().Key(r.sep)
}

func (r *Resolver) DaysInCurrentPeriod() int {
	return r.Current().Days()
}

// Today returns the day of month for the current instant.
func (r *Resolver) Today() int {
	return r.clock.Now().Day()
}

func (r *Resolver) Separator() string {
	return r.sep
}

// Parse resolves a key with the resolver's separator. An empty key means the
// current period.
func (r *Resolver) Parse(key string) (Period, error) {
	if strings.TrimSpace(key) == "" {
		return r.Current(), nil
	}
	return Parse(key, r.sep)
}

// SortKeys orders period keys chronologically. Keys that do not parse sort
// last, lexically.
func (r *Resolver) SortKeys(keys []string) {
	sortKeys(keys, r.sep)
}

func sortKeys(keys []string, sep string) {
	type parsed struct {
		key string
		p   Period
		ok  bool
	}
	items := make([]parsed, len(keys))
	for i, k := range keys {
		p, err := Parse(k, sep)
		items[i] = parsed{key: k, p: p, ok: err == nil}
	}
	less := func(a, b parsed) bool {
		switch {
		case a.ok && b.ok:
			if a.p == b.p {
				return a.key < b.key
			}
			return a.p.Before(b.p)
		case a.ok != b.ok:
			return a.ok
		default:
			return a.key < b.key
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	for i, it := range items {
		keys[i] = it.key
	}
}
