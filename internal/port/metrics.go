package port

// Metrics records conversion outcomes.
type Metrics interface {
	StartConversion(kind string) func(success bool)
	ObserveGraph(kind string, nodes int)
}
