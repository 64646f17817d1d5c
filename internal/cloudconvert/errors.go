package cloudconvert

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubmission = errors.New("cloudconvert: job submission failed")
	ErrJobFailed  = errors.New("cloudconvert: job failed")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cloudconvert: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("cloudconvert: status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// JobFailedError is returned by Wait when the job ends in the error state.
type JobFailedError struct {
	JobID string
	Tasks []Task
}

func newJobFailedError(job Job) *JobFailedError {
	var failed []Task
	for _, t := range job.Tasks {
		if t.Status == JobStatusError {
			failed = append(failed, t)
		}
	}
	return &JobFailedError{JobID: job.ID, Tasks: failed}
}

func (e *JobFailedError) Error() string {
	if len(e.Tasks) == 0 {
		return fmt.Sprintf("cloudconvert: job %s failed", e.JobID)
	}
	parts := make([]string, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		parts = append(parts, fmt.Sprintf("%s: %s", t.Name, t.Message))
	}
	return fmt.Sprintf("cloudconvert: job %s failed: %s", e.JobID, strings.Join(parts, "; "))
}

func (e *JobFailedError) Unwrap() error { return ErrJobFailed }
