package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// OperationKind enumerates the closed set of pipeline operation types.
type OperationKind string

const (
	OpResize OperationKind = "resize"
	OpCrop   OperationKind = "crop"
	OpRotate OperationKind = "rotate"
	OpFormat OperationKind = "format"
	OpFilter OperationKind = "filter"
)

// RawOperation is the wire form of one pipeline entry:
// {"type": "...", "params": {...}}.
type RawOperation map[string]interface{}

// UnmarshalJSON tolerates entries that are not JSON objects (numbers,
// strings, null). They decode to a nil map, which ParseOperation classifies
// as skippable instead of failing the whole request at bind time.
func (r *RawOperation) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		*r = nil
		return nil
	}
	*r = m
	return nil
}

// ResizeParams resizes to a target box. With MaintainAspect both dimensions
// form a bounding box (no upscaling past it); a single dimension scales the
// other by the exact ratio; without MaintainAspect the image is stretched and
// a missing dimension defaults to the source.
type ResizeParams struct {
	Width          *int
	Height         *int
	MaintainAspect bool
}

// CropParams extracts an axis-aligned rectangle.
type CropParams struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RotateParams rotates counter-clockwise by Angle degrees. Expand grows the
// canvas to hold the rotated image; otherwise the result is re-cropped to the
// original canvas size.
type RotateParams struct {
	Angle  float64
	Expand bool
}

// FormatParams re-encodes into a target container. Quality applies to lossy
// encoders only.
type FormatParams struct {
	Format  string
	Quality int
}

// FilterParams applies a named pixel filter.
type FilterParams struct {
	Filter string
}

// Operation is a parsed, typed pipeline entry. Exactly one of the parameter
// fields matching Kind is non-nil.
type Operation struct {
	Kind   OperationKind
	Resize *ResizeParams
	Crop   *CropParams
	Rotate *RotateParams
	Format *FormatParams
	Filter *FilterParams
}

// DefaultQuality is applied when a format operation omits quality.
const DefaultQuality = 85

// ParseOperation converts a wire entry into a typed Operation.
// Entries without a usable type tag, or recognized types missing required
// parameters, yield a SkippedOperationError. An unrecognized type tag yields
// an UnsupportedOperationError, which callers must treat as fatal.
func ParseOperation(raw RawOperation) (*Operation, error) {
	if raw == nil {
		return nil, SkippedOperationError{Reason: "entry is not an object"}
	}

	typeTag, ok := raw["type"].(string)
	if !ok || typeTag == "" {
		return nil, SkippedOperationError{Reason: "missing operation type"}
	}

	params, _ := raw["params"].(map[string]interface{})

	switch OperationKind(typeTag) {
	case OpResize:
		return parseResize(params)
	case OpCrop:
		return parseCrop(params)
	case OpRotate:
		return parseRotate(params)
	case OpFormat:
		return parseFormat(params)
	case OpFilter:
		return parseFilter(params)
	default:
		return nil, UnsupportedOperationError{Type: typeTag}
	}
}

func parseResize(params map[string]interface{}) (*Operation, error) {
	width := intParam(params, "width")
	height := intParam(params, "height")
	if width == nil && height == nil {
		return nil, SkippedOperationError{Reason: "resize requires width or height"}
	}

	return &Operation{
		Kind: OpResize,
		Resize: &ResizeParams{
			Width:          width,
			Height:         height,
			MaintainAspect: boolParam(params, "maintain_aspect", true),
		},
	}, nil
}

func parseCrop(params map[string]interface{}) (*Operation, error) {
	width := intParam(params, "width")
	height := intParam(params, "height")
	if width == nil || height == nil {
		return nil, SkippedOperationError{Reason: "crop requires width and height"}
	}

	op := &Operation{
		Kind: OpCrop,
		Crop: &CropParams{
			Width:  *width,
			Height: *height,
		},
	}
	if x := intParam(params, "x"); x != nil {
		op.Crop.X = *x
	}
	if y := intParam(params, "y"); y != nil {
		op.Crop.Y = *y
	}
	return op, nil
}

func parseRotate(params map[string]interface{}) (*Operation, error) {
	angle := floatParam(params, "angle")
	if angle == nil {
		return nil, SkippedOperationError{Reason: "rotate requires angle"}
	}

	return &Operation{
		Kind: OpRotate,
		Rotate: &RotateParams{
			Angle:  *angle,
			Expand: boolParam(params, "expand", false),
		},
	}, nil
}

func parseFormat(params map[string]interface{}) (*Operation, error) {
	format := stringParam(params, "format", "output_format")
	if format == "" {
		return nil, SkippedOperationError{Reason: "format requires target format"}
	}

	quality := DefaultQuality
	if q := intParam(params, "quality"); q != nil {
		quality = *q
	}

	return &Operation{
		Kind: OpFormat,
		Format: &FormatParams{
			Format:  format,
			Quality: quality,
		},
	}, nil
}

func parseFilter(params map[string]interface{}) (*Operation, error) {
	filter := stringParam(params, "filter", "filter_type")
	if filter == "" {
		return nil, SkippedOperationError{Reason: "filter requires filter name"}
	}

	return &Operation{
		Kind:   OpFilter,
		Filter: &FilterParams{Filter: filter},
	}, nil
}

// stringParam returns the first non-empty string among the given keys.
// Alternate keys keep older client payloads working.
func stringParam(params map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := params[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// JSON numbers decode as float64; accept both forms.
func intParam(params map[string]interface{}, key string) *int {
	if params == nil {
		return nil
	}
	switch v := params[key].(type) {
	case float64:
		i := int(v)
		return &i
	case int:
		return &v
	}
	return nil
}

func floatParam(params map[string]interface{}, key string) *float64 {
	if params == nil {
		return nil
	}
	switch v := params[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func boolParam(params map[string]interface{}, key string, def bool) bool {
	if params == nil {
		return def
	}
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// CanonicalParams renders an operation list in canonical form: object keys
// sorted at every nesting level, list order preserved. Two requests with the
// same operations in the same order always produce the same string.
func CanonicalParams(ops []RawOperation) (string, error) {
	if ops == nil {
		ops = []RawOperation{}
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize operations: %w", err)
	}
	return string(data), nil
}

// TransformCacheKey addresses a transformation result in the fast cache.
func TransformCacheKey(imageID int64, canonicalParams string) string {
	return fmt.Sprintf("transform:%d:%s", imageID, canonicalParams)
}

// ParamsFingerprint is a fixed-length digest of canonical parameters, used
// as the durable lookup index key.
func ParamsFingerprint(canonicalParams string) string {
	sum := sha256.Sum256([]byte(canonicalParams))
	return hex.EncodeToString(sum[:])
}
