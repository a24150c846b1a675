package model

import (
	"strconv"
	"strings"
	"time"
)

// NumberFilter holds the optional comparison bounds accepted for a numeric column.
type NumberFilter struct {
	Exact *float64
	Gt    *float64
	Gte   *float64
	Lt    *float64
	Lte   *float64
}

func (f NumberFilter) Empty() bool {
	return f.Exact == nil && f.Gt == nil && f.Gte == nil && f.Lt == nil && f.Lte == nil
}

type Ordering struct {
	Field string
	Desc  bool
}

var orderingFields = map[string]struct{}{
	"price":    {},
	"capacity": {},
}

// ParseOrdering reads "price,-capacity"; unknown fields are ignored.
func ParseOrdering(s string) []Ordering {
	var out []Ordering
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if _, ok := orderingFields[field]; !ok {
			continue
		}
		out = append(out, Ordering{Field: field, Desc: desc})
	}
	return out
}

type RoomFilter struct {
	Price    NumberFilter
	Capacity NumberFilter
	Ordering []Ordering
	// Begin and End narrow the listing to rooms free in the window.
	Begin *time.Time
	End   *time.Time
}

func (f RoomFilter) HasWindow() bool {
	return f.Begin != nil || f.End != nil
}

// Key is a stable textual form of the filter used for caching.
func (f RoomFilter) Key() string {
	var b strings.Builder
	writeNumber(&b, "price", f.Price)
	writeNumber(&b, "capacity", f.Capacity)
	for _, o := range f.Ordering {
		b.WriteString("o:")
		if o.Desc {
			b.WriteByte('-')
		}
		b.WriteString(o.Field)
		b.WriteByte(';')
	}
	if f.Begin != nil {
		b.WriteString("b:" + f.Begin.Format(time.DateOnly) + ";")
	}
	if f.End != nil {
		b.WriteString("e:" + f.End.Format(time.DateOnly) + ";")
	}
	return b.String()
}

func writeNumber(b *strings.Builder, name string, f NumberFilter) {
	for _, op := range []struct {
		op string
		v  *float64
	}{{"eq", f.Exact}, {"gt", f.Gt}, {"gte", f.Gte}, {"lt", f.Lt}, {"lte", f.Lte}} {
		if op.v == nil {
			continue
		}
		b.WriteString(name + "__" + op.op + ":" + strconv.FormatFloat(*op.v, 'f', -1, 64) + ";")
	}
}
