package outbound

// Resolution outcomes reported by the ingredient resolver
const (
	ResolutionMatched = "matched"
	ResolutionCreated = "created"
	ResolutionReused  = "reused"
)

// EngineMetrics receives business measurements from the application layer
type EngineMetrics interface {
	// RecordResolution counts one resolved name by outcome.
	RecordResolution(outcome string)
	// RecordRecommendations observes the size of a ranked recommendation list.
	RecordRecommendations(count int)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordResolution(string)    {}
func (NopMetrics) RecordRecommendations(int) {}
