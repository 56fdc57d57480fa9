package markov

// ModelStats holds aggregated statistics for a single Markov model.
type ModelStats struct {
	Order            int // The number of preceding symbols used as context.
	Contexts         int // The number of unique contexts with at least one transition.
	TotalTransitions int // The number of unique context->next_symbol links.
	TotalFrequency   int // The sum of counts of all links; the total number of trained transitions.
	TotalTermini     int // The sum of terminus counts; the number of trained sequences.
	StartingSymbols  int // The number of unique symbols that can start a sequence.
}

// Stats returns a snapshot of statistics for the model.
func (m *Model[T]) Stats() ModelStats {
	stats := ModelStats{
		Order:    m.order,
		Contexts: m.transitions.len(),
	}

	for key, freq := range m.transitions.all() {
		stats.TotalTransitions += freq.Len()
		stats.TotalFrequency += freq.Total()
		if key.Len() == 0 {
			stats.StartingSymbols = freq.Len()
		}
	}
	for _, n := range m.termini.all() {
		stats.TotalTermini += n
	}

	return stats
}
