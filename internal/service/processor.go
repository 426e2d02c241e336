package service

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/disintegration/imaging"
	"github.com/icza/gox/imagex/colorx"
	"go.uber.org/zap"
	"golang.org/x/image/webp"
)

// ProcessorServiceImpl implements the ProcessorService interface. Every
// operation decodes, transforms and re-encodes in the input container;
// only ConvertFormat changes the container.
type ProcessorServiceImpl struct {
	maxWidth        int
	maxHeight       int
	backgroundColor color.Color // fills rotate-expand corners
}

// NewProcessorService creates a new image processor service
func NewProcessorService(maxWidth, maxHeight int, backgroundHex string) ProcessorService {
	if maxWidth <= 0 {
		maxWidth = 8192
	}
	if maxHeight <= 0 {
		maxHeight = 8192
	}

	var background color.Color = color.NRGBA{A: 0xff}
	if parsed, err := colorx.ParseHexColor(backgroundHex); err != nil {
		logger.Warn("Invalid background color, using black",
			zap.String("color", backgroundHex),
			zap.Error(err))
	} else {
		background = parsed
	}

	return &ProcessorServiceImpl{
		maxWidth:        maxWidth,
		maxHeight:       maxHeight,
		backgroundColor: background,
	}
}

// Info decodes image data and reports its dimensions and container format
func (p *ProcessorServiceImpl) Info(data []byte) (*ImageInfo, error) {
	img, format, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, models.DecodeError{Reason: "image has empty dimensions"}
	}
	if width > p.maxWidth || height > p.maxHeight {
		return nil, models.ValidationError{
			Field:   "file",
			Message: "image dimensions exceed the allowed maximum",
		}
	}

	return &ImageInfo{Width: width, Height: height, Format: format}, nil
}

// Resize scales an image. With MaintainAspect and both dimensions the target
// is a bounding box (thumbnail semantics, no upscaling); with one dimension
// the other follows the exact ratio; without MaintainAspect the image is
// stretched and a missing dimension defaults to the source.
func (p *ProcessorServiceImpl) Resize(data []byte, params models.ResizeParams) ([]byte, error) {
	img, format, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	if params.Width == nil && params.Height == nil {
		return nil, models.InvalidParametersError{Operation: "resize", Reason: "width or height is required"}
	}
	if (params.Width != nil && *params.Width <= 0) || (params.Height != nil && *params.Height <= 0) {
		return nil, models.InvalidParametersError{Operation: "resize", Reason: "dimensions must be positive"}
	}

	bounds := img.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()

	var result image.Image
	switch {
	case params.MaintainAspect && params.Width != nil && params.Height != nil:
		// Fit never upscales past the box, matching thumbnail semantics.
		result = imaging.Fit(img, *params.Width, *params.Height, imaging.Lanczos)
	case params.MaintainAspect && params.Width != nil:
		ratio := float64(*params.Width) / float64(srcWidth)
		result = imaging.Resize(img, *params.Width, int(float64(srcHeight)*ratio), imaging.Lanczos)
	case params.MaintainAspect:
		ratio := float64(*params.Height) / float64(srcHeight)
		result = imaging.Resize(img, int(float64(srcWidth)*ratio), *params.Height, imaging.Lanczos)
	default:
		targetWidth, targetHeight := srcWidth, srcHeight
		if params.Width != nil {
			targetWidth = *params.Width
		}
		if params.Height != nil {
			targetHeight = *params.Height
		}
		result = imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)
	}

	return p.encodeImage(result, format, models.DefaultQuality)
}

// Crop extracts an axis-aligned rectangle, rejecting anything outside the
// source bounds
func (p *ProcessorServiceImpl) Crop(data []byte, params models.CropParams) ([]byte, error) {
	img, format, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	if params.Width <= 0 || params.Height <= 0 {
		return nil, models.InvalidParametersError{Operation: "crop", Reason: "width and height must be positive"}
	}

	bounds := img.Bounds()
	if params.X < 0 || params.Y < 0 ||
		params.X+params.Width > bounds.Dx() ||
		params.Y+params.Height > bounds.Dy() {
		return nil, models.InvalidParametersError{Operation: "crop", Reason: "crop rectangle exceeds image bounds"}
	}

	cropped := imaging.Crop(img, image.Rect(params.X, params.Y, params.X+params.Width, params.Y+params.Height))
	return p.encodeImage(cropped, format, models.DefaultQuality)
}

// Rotate rotates counter-clockwise. With Expand the canvas grows and corners
// are filled with the configured background; without it the rotated result is
// centered on a background-filled canvas of the original size, clipping
// whatever falls outside and padding whatever falls short.
func (p *ProcessorServiceImpl) Rotate(data []byte, params models.RotateParams) ([]byte, error) {
	img, format, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	rotated := imaging.Rotate(img, params.Angle, p.backgroundColor)
	if !params.Expand {
		bounds := img.Bounds()
		canvas := imaging.New(bounds.Dx(), bounds.Dy(), p.backgroundColor)
		rotated = imaging.PasteCenter(canvas, rotated)
	}

	return p.encodeImage(rotated, format, models.DefaultQuality)
}

// ConvertFormat re-encodes into a target container
func (p *ProcessorServiceImpl) ConvertFormat(data []byte, params models.FormatParams) ([]byte, error) {
	target, err := normalizeFormat(params.Format)
	if err != nil {
		return nil, err
	}

	quality := params.Quality
	if quality < 1 || quality > 100 {
		return nil, models.InvalidParametersError{Operation: "format", Reason: "quality must be between 1 and 100"}
	}

	img, _, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	return p.encodeImage(img, target, quality)
}

// ApplyFilter applies a named pixel filter and re-encodes in the input format
func (p *ProcessorServiceImpl) ApplyFilter(data []byte, params models.FilterParams) ([]byte, error) {
	img, format, err := p.decodeImage(data)
	if err != nil {
		return nil, models.DecodeError{Reason: err.Error()}
	}

	var filtered image.Image
	switch strings.ToLower(params.Filter) {
	case "grayscale":
		filtered = imaging.Grayscale(img)
	case "sepia":
		filtered = sepia(img)
	case "blur":
		filtered = imaging.Blur(img, 2.0)
	case "sharpen":
		filtered = imaging.Sharpen(img, 1.0)
	default:
		return nil, models.UnsupportedFilterError{Filter: params.Filter}
	}

	return p.encodeImage(filtered, format, models.DefaultQuality)
}

// Helper methods

// decodeImage decodes image data into image.Image
func (p *ProcessorServiceImpl) decodeImage(data []byte) (image.Image, string, error) {
	reader := bytes.NewReader(data)

	img, format, err := image.Decode(reader)
	if err != nil {
		// Try WebP specifically (not in standard library)
		if _, seekErr := reader.Seek(0, 0); seekErr == nil {
			if webpImg, webpErr := webp.Decode(reader); webpErr == nil {
				return webpImg, "webp", nil
			}
		}
		return nil, "", err
	}

	return img, format, nil
}

// encodeImage encodes image.Image to bytes in the given container format.
// JPEG flattens alpha implicitly via the encoder's RGB conversion. WebP
// output falls back to JPEG: there is no pure-Go WebP encoder.
func (p *ProcessorServiceImpl) encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		encoder := &png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	case "gif":
		options := &gif.Options{NumColors: 256}
		if err := gif.Encode(&buf, img, options); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	default: // jpeg, webp fallback
		options := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, options); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	}

	return buf.Bytes(), nil
}

// sepia desaturates and then scales the gray intensity per channel
// (R x1.1, G x0.9, B x0.7, clamped)
func sepia(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) * 1.1),
			G: clampChannel(float64(c.G) * 0.9),
			B: clampChannel(float64(c.B) * 0.7),
			A: c.A,
		}
	})
}

func clampChannel(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

// normalizeFormat maps accepted target format names to encoder formats
func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpeg", nil
	case "png":
		return "png", nil
	case "gif":
		return "gif", nil
	case "webp":
		return "webp", nil
	default:
		return "", models.UnsupportedFormatError{Format: format}
	}
}
