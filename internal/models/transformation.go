package models

import (
	"encoding/json"
	"time"
)

// TransformationType labels how a Transformation was produced. Every
// pipeline run is stored as a single composite record regardless of how many
// operations it contained.
const TransformationTypeComposite = "composite"

// Transformation persists the mapping from (image, canonical parameters) to
// a produced blob. Parameters holds the canonical JSON of the operation list
// exactly as used for the cache key.
type Transformation struct {
	ID         int64     `json:"id"`
	ImageID    int64     `json:"image_id"`
	Type       string    `json:"type"`
	Parameters string    `json:"parameters"`
	CachedKey  string    `json:"cached_key"`
	CachedURL  string    `json:"cached_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransformationResponse is the public projection: parameters are exposed as
// the decoded operation list rather than a string.
type TransformationResponse struct {
	ID         int64           `json:"id"`
	ImageID    int64           `json:"image_id"`
	Type       string          `json:"type"`
	Parameters json.RawMessage `json:"parameters"`
	CachedKey  string          `json:"cached_key"`
	CachedURL  string          `json:"cached_url"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToResponse converts a Transformation into its public projection.
func (t *Transformation) ToResponse() TransformationResponse {
	params := json.RawMessage(t.Parameters)
	if !json.Valid(params) {
		params = json.RawMessage("[]")
	}
	return TransformationResponse{
		ID:         t.ID,
		ImageID:    t.ImageID,
		Type:       t.Type,
		Parameters: params,
		CachedKey:  t.CachedKey,
		CachedURL:  t.CachedURL,
		CreatedAt:  t.CreatedAt,
	}
}
