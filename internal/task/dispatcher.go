package task

import (
	"context"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/hibiken/asynq"
)

// ConversionTimeout bounds a single conversion task, remote wait included.
const ConversionTimeout = 2 * time.Hour

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueConvertImages(ctx context.Context, in port.ConvertImagesInput) error {
	t, err := NewConvertImagesTask(in)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, t, in.ID.String())
}

func (d *Dispatcher) EnqueueConvertVideo(ctx context.Context, in port.ConvertVideoInput) error {
	t, err := NewConvertVideoTask(in)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, t, in.ID.String())
}

// enqueue disables retries: a failed remote job is reported as is, never resubmitted.
func (d *Dispatcher) enqueue(ctx context.Context, t *asynq.Task, id string) error {
	_, err := d.client.EnqueueContext(ctx, t,
		asynq.TaskID(id),
		asynq.MaxRetry(0),
		asynq.Timeout(ConversionTimeout),
	)
	return err
}
