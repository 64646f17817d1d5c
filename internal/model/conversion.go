package model

import (
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type ConversionKind string

const (
	ConversionKindImage ConversionKind = "image"
	ConversionKindVideo ConversionKind = "video"
)

type ConversionStatus string

const (
	ConversionStatusQueued     ConversionStatus = "queued"
	ConversionStatusProcessing ConversionStatus = "processing"
	ConversionStatusFinished   ConversionStatus = "finished"
	ConversionStatusFailed     ConversionStatus = "failed"
)

// Conversion tracks one conversion request. The graph itself is never stored,
// only the remote job it was submitted as.
type Conversion struct {
	ID          uuid.UUID        `json:"id"`
	Kind        ConversionKind   `json:"kind"`
	Status      ConversionStatus `json:"status"`
	JobID       string           `json:"job_id,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Terminal reports whether the conversion will not change anymore.
func (c *Conversion) Terminal() bool {
	return c.Status == ConversionStatusFinished || c.Status == ConversionStatusFailed
}
