package port

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
)

// JobHandle identifies a job accepted by the remote conversion engine.
type JobHandle struct {
	ID  string
	Tag string
}

// JobResult describes a job that reached a terminal state.
type JobResult struct {
	ID     string
	Status string
}

// JobGateway submits conversion graphs to the remote engine and waits for them.
type JobGateway interface {
	Submit(ctx context.Context, g *graph.Graph) (JobHandle, error)
	Wait(ctx context.Context, h JobHandle) (JobResult, error)
}
