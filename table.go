package easy21

// table is a dense [numDealer][numPlayer][nActions] array of float32,
// stored flat. The agent keeps two: action values (Q) and visit counts (N).
// Both are zero-valued until updated.
type table struct {
	nActions int
	vals     []float32
}

func newTable(nActions int) *table {
	return &table{
		nActions: nActions,
		vals:     make([]float32, numDealer*numPlayer*nActions),
	}
}

// row returns the per-action slice for the given state.
// The slice aliases the table's backing array.
func (t *table) row(s State) []float32 {
	base := (s.Dealer*numPlayer + s.Player) * t.nActions
	return t.vals[base : base+t.nActions]
}

func (t *table) at(s State, action int) float32 {
	return t.row(s)[action]
}

func (t *table) add(s State, action int, delta float32) {
	t.row(s)[action] += delta
}

// nested copies the table out as a [numDealer][numPlayer][nActions]
// nested slice for external consumption.
func (t *table) nested() [][][]float32 {
	result := make([][][]float32, numDealer)
	for d := range result {
		result[d] = make([][]float32, numPlayer)
		for p := range result[d] {
			row := make([]float32, t.nActions)
			copy(row, t.row(State{Dealer: d, Player: p}))
			result[d][p] = row
		}
	}
	return result
}
