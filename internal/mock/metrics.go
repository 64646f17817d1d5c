package mock

// Metrics implements port.Metrics for tests.
type Metrics struct {
	Started   []string
	Successes int
	Failures  int
	Graphs    map[string]int
}

func (m *Metrics) StartConversion(kind string) func(success bool) {
	m.Started = append(m.Started, kind)
	return func(success bool) {
		if success {
			m.Successes++
		} else {
			m.Failures++
		}
	}
}

func (m *Metrics) ObserveGraph(kind string, nodes int) {
	if m.Graphs == nil {
		m.Graphs = make(map[string]int)
	}
	m.Graphs[kind] = nodes
}
