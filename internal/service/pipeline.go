package service

import (
	"context"
	"errors"

	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// PipelineServiceImpl applies operation lists through the processor.
//
// Skip policy: malformed or typeless entries and recognized operations
// missing required parameters are logged and skipped. Present-but-invalid
// parameters and unknown operation types abort the whole pipeline; there is
// no partial-result fallback. An empty list is the identity.
type PipelineServiceImpl struct {
	processor ProcessorService
}

// NewPipelineService creates a new pipeline executor
func NewPipelineService(processor ProcessorService) PipelineService {
	return &PipelineServiceImpl{processor: processor}
}

// Run threads the image bytes through each operation in order
func (p *PipelineServiceImpl) Run(ctx context.Context, data []byte, operations []models.RawOperation) ([]byte, error) {
	current := data

	for i, raw := range operations {
		op, err := models.ParseOperation(raw)
		if err != nil {
			var skip models.SkippedOperationError
			if errors.As(err, &skip) {
				logger.WarnWithContext(ctx, "Skipping pipeline operation",
					zap.Int("index", i),
					zap.String("reason", skip.Reason))
				continue
			}
			return nil, err
		}

		current, err = p.apply(current, op)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

func (p *PipelineServiceImpl) apply(data []byte, op *models.Operation) ([]byte, error) {
	switch op.Kind {
	case models.OpResize:
		return p.processor.Resize(data, *op.Resize)
	case models.OpCrop:
		return p.processor.Crop(data, *op.Crop)
	case models.OpRotate:
		return p.processor.Rotate(data, *op.Rotate)
	case models.OpFormat:
		return p.processor.ConvertFormat(data, *op.Format)
	case models.OpFilter:
		return p.processor.ApplyFilter(data, *op.Filter)
	default:
		return nil, models.UnsupportedOperationError{Type: string(op.Kind)}
	}
}
