package cloudconvert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/graph"
	"github.com/fhuszti/medias-conversion-ms/internal/logger"
	"github.com/fhuszti/medias-conversion-ms/internal/port"
	"github.com/valyala/fasthttp"
)

const (
	BaseURL        = "https://api.cloudconvert.com"
	SandboxBaseURL = "https://api.sandbox.cloudconvert.com"

	JobStatusWaiting    = "waiting"
	JobStatusProcessing = "processing"
	JobStatusFinished   = "finished"
	JobStatusError      = "error"

	defaultPollInterval   = 2 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

type Options struct {
	APIKey  string
	Sandbox bool
	// BaseURL overrides the endpoint picked from Sandbox.
	BaseURL        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

// Client talks to the CloudConvert v2 jobs API.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	apiKey         string
	pollInterval   time.Duration
	requestTimeout time.Duration
}

// compile-time check: *Client must satisfy port.JobGateway
var _ port.JobGateway = (*Client)(nil)

func New(o Options) *Client {
	base := o.BaseURL
	if base == "" {
		base = BaseURL
		if o.Sandbox {
			base = SandboxBaseURL
		}
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	return &Client{
		http:           &fasthttp.Client{Name: "medias-conversion-ms"},
		baseURL:        base,
		apiKey:         o.APIKey,
		pollInterval:   o.PollInterval,
		requestTimeout: o.RequestTimeout,
	}
}

type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      string `json:"code"`
}

type Job struct {
	ID     string `json:"id"`
	Tag    string `json:"tag"`
	Status string `json:"status"`
	Tasks  []Task `json:"tasks"`
}

type jobEnvelope struct {
	Data Job `json:"data"`
}

type createJobRequest struct {
	Tag   string       `json:"tag,omitempty"`
	Tasks *graph.Graph `json:"tasks"`
}

// JobPayload renders the create-job body for g, tagged with the graph fingerprint.
func JobPayload(g *graph.Graph) (tag string, body []byte, err error) {
	tag, err = g.Fingerprint()
	if err != nil {
		return "", nil, fmt.Errorf("fingerprint graph: %w", err)
	}
	body, err = json.Marshal(createJobRequest{Tag: tag, Tasks: g})
	if err != nil {
		return "", nil, fmt.Errorf("marshal job: %w", err)
	}
	return tag, body, nil
}

// Submit creates a job from g.
func (c *Client) Submit(ctx context.Context, g *graph.Graph) (port.JobHandle, error) {
	tag, body, err := JobPayload(g)
	if err != nil {
		return port.JobHandle{}, err
	}

	var env jobEnvelope
	if err := c.do(ctx, fasthttp.MethodPost, "/v2/jobs", body, &env); err != nil {
		return port.JobHandle{}, fmt.Errorf("%w: %w", ErrSubmission, err)
	}

	logger.Infof(ctx, "📤 Submitted job %s with %d tasks (tag %s)", env.Data.ID, g.Len(), tag)
	return port.JobHandle{ID: env.Data.ID, Tag: tag}, nil
}

// GetJob fetches the current state of a job.
func (c *Client) GetJob(ctx context.Context, id string) (Job, error) {
	var env jobEnvelope
	if err := c.do(ctx, fasthttp.MethodGet, "/v2/jobs/"+id, nil, &env); err != nil {
		return Job{}, err
	}
	return env.Data, nil
}

// Wait polls the job until it finishes or fails, or until ctx is done.
func (c *Client) Wait(ctx context.Context, h port.JobHandle) (port.JobResult, error) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return port.JobResult{}, ctx.Err()
		case <-timer.C:
		}

		job, err := c.GetJob(ctx, h.ID)
		if err != nil {
			return port.JobResult{}, fmt.Errorf("poll job %s: %w", h.ID, err)
		}

		switch job.Status {
		case JobStatusFinished:
			logger.Infof(ctx, "✅  Job %s finished", job.ID)
			return port.JobResult{ID: job.ID, Status: job.Status}, nil
		case JobStatusError:
			return port.JobResult{ID: job.ID, Status: job.Status}, newJobFailedError(job)
		}

		logger.Debugf(ctx, "job %s is %s, polling again in %s", job.ID, job.Status, c.pollInterval)
		timer.Reset(c.pollInterval)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, c.timeout(ctx)); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		apiErr := &APIError{StatusCode: status}
		_ = json.Unmarshal(resp.Body(), apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// timeout bounds a single request by the request timeout and the ctx deadline.
func (c *Client) timeout(ctx context.Context) time.Duration {
	d := c.requestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}
