// Package klass implements the Klass value object (C3): the three-level
// class/tribe hierarchy (cat1/cat2/cat3) a card may belong to, and the
// assignment of each unique klass row to a stable bit position.
package klass

import "fmt"

// Klass is one row of the three-level class hierarchy. SortAsc is the
// database's insertion-order rank, preserved verbatim so the bit
// position a klass maps to never shifts across a re-run of the
// analyzer (spec.md §4.3: "the index emitter maps each klass id to a
// bit position 1 << sort_asc").
type Klass struct {
	ID      int64
	Cat1    string
	Cat2    string
	Cat3    string
	SortAsc int
}

// Bit returns the klass's position in the 64-bit klass_bits mask.
func (k Klass) Bit() uint64 {
	return uint64(1) << uint(k.SortAsc)
}

// Table maps a klass's ID to its Klass row.
type Table map[int64]Klass

// BitFor looks up a klass by id and returns its bit, or 0 if the table
// has no row for the id (an orphaned card-klass assignment — §4.9 never
// panics on a missing join target, it just contributes no bit).
func (t Table) BitFor(id int64) uint64 {
	if k, ok := t[id]; ok {
		return k.Bit()
	}
	return 0
}

// BitsFor ORs the bits for every id in ids.
func (t Table) BitsFor(ids []int64) uint64 {
	var bits uint64
	for _, id := range ids {
		bits |= t.BitFor(id)
	}
	return bits
}

// NextSortAsc returns the sort_asc value for a newly inserted klass row,
// one past the highest SortAsc currently in the table. Bit positions are
// append-only: an existing klass's SortAsc must never be reassigned once
// a static index has been emitted against it.
func (t Table) NextSortAsc() int {
	max := -1
	for _, k := range t {
		if k.SortAsc > max {
			max = k.SortAsc
		}
	}
	return max + 1
}

// Label renders the hierarchy path for display, e.g. "精像 / アルフォウ".
func (k Klass) Label() string {
	switch {
	case k.Cat3 != "":
		return fmt.Sprintf("%s / %s / %s", k.Cat1, k.Cat2, k.Cat3)
	case k.Cat2 != "":
		return fmt.Sprintf("%s / %s", k.Cat1, k.Cat2)
	default:
		return k.Cat1
	}
}
