package mock

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
)

// JobGateway implements port.JobGateway for tests.
type JobGateway struct {
	HandleOut port.JobHandle
	ResultOut port.JobResult

	SubmitErr error
	WaitErr   error

	// captured inputs
	Graph  *graph.Graph
	Handle port.JobHandle

	SubmitCalled bool
	WaitCalled   bool
}

func (g *JobGateway) Submit(ctx context.Context, gr *graph.Graph) (port.JobHandle, error) {
	g.SubmitCalled = true
	g.Graph = gr
	if g.SubmitErr != nil {
		return port.JobHandle{}, g.SubmitErr
	}
	return g.HandleOut, nil
}

func (g *JobGateway) Wait(ctx context.Context, h port.JobHandle) (port.JobResult, error) {
	g.WaitCalled = true
	g.Handle = h
	if g.WaitErr != nil {
		return g.ResultOut, g.WaitErr
	}
	return g.ResultOut, nil
}
