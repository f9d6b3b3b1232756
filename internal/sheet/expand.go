package sheet

import (
	"sort"

	"csvpp/internal/options"
)

// RowMax re-exports the sheet size cap fills expand against.
const RowMax = options.RowMax

// Expand replicates every fill row into its concrete row range and returns a new Spreadsheet
// with one Row per output row index, in ascending row order. A plain (non-fill) row occupies
// its own declared index; a fill row occupies every index from its StartRow up to its EndRow.
// Fills are expected not to overlap each other or a plain row's own index; when two rows do
// claim the same output index, the one that appears later in the source wins, since it was
// declared "on top of" whatever came before it.
func Expand(s *Spreadsheet) *Spreadsheet {
	slots := make(map[int]*Row)

	for _, row := range s.Rows {
		if row.Fill == nil {
			slots[row.Index] = row.Clone(row.Index)
			continue
		}
		start, end := row.Fill.StartRow, row.Fill.EndRow()
		for out := start; out < end; out++ {
			slots[out] = row.Clone(out)
		}
	}

	indices := make([]int, 0, len(slots))
	for idx := range slots {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := &Spreadsheet{Rows: make([]*Row, len(indices))}
	for i, idx := range indices {
		out.Rows[i] = slots[idx]
	}
	return out
}
