package optimize

import "github.com/go-bf/bf/compiler/ir"

// bulkAssign is pass 6: within a straight-line run (after pass 5, so
// the only nodes left other than ValAdd/Set are the run's single
// trailing PtrAdd and whatever boundary node follows), a maximal
// span of consecutive ValAdd/Set nodes collapses into one BulkAdd
// plus one BulkSet. A Set absorbs any ValAdd at the same offset
// (earlier or later in the span, not just immediately adjacent) and
// shadows whatever earlier ValAdd touched that offset; every offset
// in the span ends in exactly one final state, add or set, so the
// two resulting groups touch disjoint offsets and can be emitted in
// either order. A group with a single pair collapses back to the
// plain node it came from.
func bulkAssign(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, bulkAssign)

	out := make([]ir.Node, 0, len(seq))

	for i := 0; i < len(seq); {
		if !isAddOrSet(seq[i]) {
			out = append(out, seq[i])
			i++
			continue
		}

		j := i + 1
		for j < len(seq) && isAddOrSet(seq[j]) {
			j++
		}

		out = append(out, bulkGroup(seq[i:j])...)
		i = j
	}

	return out
}

func isAddOrSet(n ir.Node) bool {
	switch n.(type) {
	case ir.ValAdd, ir.Set:
		return true
	default:
		return false
	}
}

type bulkEntry struct {
	isSet bool
	delta int
	value int
}

func bulkGroup(span []ir.Node) []ir.Node {
	order := make([]int, 0, len(span))
	at := map[int]int{}
	entries := make([]bulkEntry, 0, len(span))

	touch := func(offset int) *bulkEntry {
		if k, ok := at[offset]; ok {
			return &entries[k]
		}

		at[offset] = len(entries)
		entries = append(entries, bulkEntry{})
		order = append(order, offset)

		return &entries[len(entries)-1]
	}

	for _, n := range span {
		switch x := n.(type) {
		case ir.ValAdd:
			e := touch(x.Offset)
			if e.isSet {
				e.value = mod256(e.value + x.Delta)
			} else {
				e.delta = mod256(e.delta + x.Delta)
			}
		case ir.Set:
			e := touch(x.Offset)
			*e = bulkEntry{isSet: true, value: x.Value}
		}
	}

	var adds []ir.OffsetDelta
	var sets []ir.OffsetValue

	for _, off := range order {
		e := entries[at[off]]

		switch {
		case e.isSet:
			sets = append(sets, ir.OffsetValue{Offset: off, Value: e.value})
		case e.delta != 0:
			adds = append(adds, ir.OffsetDelta{Offset: off, Delta: e.delta})
		}
	}

	var out []ir.Node

	switch len(adds) {
	case 0:
	case 1:
		out = append(out, ir.ValAdd{Offset: adds[0].Offset, Delta: adds[0].Delta})
	default:
		out = append(out, ir.BulkAdd{Pairs: adds})
	}

	switch len(sets) {
	case 0:
	case 1:
		out = append(out, ir.Set{Offset: sets[0].Offset, Value: sets[0].Value})
	default:
		out = append(out, ir.BulkSet{Pairs: sets})
	}

	return out
}
