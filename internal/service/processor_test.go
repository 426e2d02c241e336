package service

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"pixelforge/internal/models"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int, format imaging.Format) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90))
	require.NoError(t, err)
	return buf.Bytes()
}

func decodeDimensions(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy(), format
}

func intPtr(v int) *int { return &v }

func TestProcessorService_Info(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#000000")

	t.Run("jpeg_info", func(t *testing.T) {
		data := encodeTestImage(t, 100, 50, imaging.JPEG)

		info, err := processor.Info(data)
		require.NoError(t, err)
		assert.Equal(t, 100, info.Width)
		assert.Equal(t, 50, info.Height)
		assert.Equal(t, "jpeg", info.Format)
	})

	t.Run("png_info", func(t *testing.T) {
		data := encodeTestImage(t, 200, 100, imaging.PNG)

		info, err := processor.Info(data)
		require.NoError(t, err)
		assert.Equal(t, 200, info.Width)
		assert.Equal(t, "png", info.Format)
	})

	t.Run("invalid_data", func(t *testing.T) {
		_, err := processor.Info([]byte("not an image"))
		assert.ErrorAs(t, err, &models.DecodeError{})
	})

	t.Run("dimensions_exceed_maximum", func(t *testing.T) {
		small := NewProcessorService(64, 64, "#000000")
		data := encodeTestImage(t, 100, 100, imaging.PNG)

		_, err := small.Info(data)
		assert.ErrorAs(t, err, &models.ValidationError{})
	})
}

func TestProcessorService_Resize(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#000000")
	source := encodeTestImage(t, 400, 200, imaging.JPEG)

	t.Run("fit_within_box", func(t *testing.T) {
		result, err := processor.Resize(source, models.ResizeParams{
			Width: intPtr(100), Height: intPtr(100), MaintainAspect: true,
		})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 100, w)
		assert.Equal(t, 50, h)
	})

	t.Run("fit_never_upscales", func(t *testing.T) {
		result, err := processor.Resize(source, models.ResizeParams{
			Width: intPtr(800), Height: intPtr(800), MaintainAspect: true,
		})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 400, w)
		assert.Equal(t, 200, h)
	})

	t.Run("single_dimension_keeps_ratio", func(t *testing.T) {
		result, err := processor.Resize(source, models.ResizeParams{
			Width: intPtr(200), MaintainAspect: true,
		})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})

	t.Run("stretch_ignores_ratio", func(t *testing.T) {
		result, err := processor.Resize(source, models.ResizeParams{
			Width: intPtr(100), Height: intPtr(100), MaintainAspect: false,
		})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 100, w)
		assert.Equal(t, 100, h)
	})

	t.Run("stretch_missing_dimension_defaults_to_source", func(t *testing.T) {
		result, err := processor.Resize(source, models.ResizeParams{
			Width: intPtr(100), MaintainAspect: false,
		})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 100, w)
		assert.Equal(t, 200, h)
	})

	t.Run("non_positive_dimension", func(t *testing.T) {
		_, err := processor.Resize(source, models.ResizeParams{Width: intPtr(-1)})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})

	t.Run("no_dimensions", func(t *testing.T) {
		_, err := processor.Resize(source, models.ResizeParams{})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})

	t.Run("preserves_container", func(t *testing.T) {
		pngSource := encodeTestImage(t, 100, 100, imaging.PNG)
		result, err := processor.Resize(pngSource, models.ResizeParams{Width: intPtr(50), MaintainAspect: true})
		require.NoError(t, err)

		_, _, format := decodeDimensions(t, result)
		assert.Equal(t, "png", format)
	})
}

func TestProcessorService_Crop(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#000000")
	source := encodeTestImage(t, 200, 100, imaging.PNG)

	t.Run("valid_crop", func(t *testing.T) {
		result, err := processor.Crop(source, models.CropParams{X: 10, Y: 10, Width: 50, Height: 40})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 50, w)
		assert.Equal(t, 40, h)
	})

	t.Run("rectangle_exceeds_bounds", func(t *testing.T) {
		_, err := processor.Crop(source, models.CropParams{X: 180, Y: 0, Width: 50, Height: 50})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})

	t.Run("negative_origin", func(t *testing.T) {
		_, err := processor.Crop(source, models.CropParams{X: -1, Y: 0, Width: 50, Height: 50})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})

	t.Run("non_positive_size", func(t *testing.T) {
		_, err := processor.Crop(source, models.CropParams{Width: 0, Height: 50})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})
}

func TestProcessorService_Rotate(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#ffffff")
	source := encodeTestImage(t, 200, 100, imaging.PNG)

	t.Run("expand_grows_canvas", func(t *testing.T) {
		result, err := processor.Rotate(source, models.RotateParams{Angle: 90, Expand: true})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 100, w)
		assert.Equal(t, 200, h)
	})

	t.Run("no_expand_keeps_canvas", func(t *testing.T) {
		result, err := processor.Rotate(source, models.RotateParams{Angle: 45, Expand: false})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})

	t.Run("no_expand_quarter_turn_keeps_canvas", func(t *testing.T) {
		// At 90 degrees the rotated bounding box is 100x200, narrower than
		// the source; the output must still be padded back to 200x100.
		result, err := processor.Rotate(source, models.RotateParams{Angle: 90, Expand: false})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})

	t.Run("invalid_background_falls_back_to_black", func(t *testing.T) {
		fallback := NewProcessorService(4096, 4096, "not-a-color")

		result, err := fallback.Rotate(source, models.RotateParams{Angle: 45, Expand: true})
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(result))
		require.NoError(t, err)
		r, g, b, a := img.At(0, 0).RGBA()
		assert.Zero(t, r)
		assert.Zero(t, g)
		assert.Zero(t, b)
		assert.Equal(t, uint32(0xffff), a)
	})

	t.Run("full_turn_is_identity_size", func(t *testing.T) {
		result, err := processor.Rotate(source, models.RotateParams{Angle: 360, Expand: true})
		require.NoError(t, err)

		w, h, _ := decodeDimensions(t, result)
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})
}

func TestProcessorService_ConvertFormat(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#000000")
	source := encodeTestImage(t, 100, 100, imaging.JPEG)

	t.Run("jpeg_to_png", func(t *testing.T) {
		result, err := processor.ConvertFormat(source, models.FormatParams{Format: "png", Quality: 85})
		require.NoError(t, err)

		_, _, format := decodeDimensions(t, result)
		assert.Equal(t, "png", format)
	})

	t.Run("png_to_jpeg", func(t *testing.T) {
		pngSource := encodeTestImage(t, 100, 100, imaging.PNG)
		result, err := processor.ConvertFormat(pngSource, models.FormatParams{Format: "jpg", Quality: 70})
		require.NoError(t, err)

		_, _, format := decodeDimensions(t, result)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("gif_target", func(t *testing.T) {
		result, err := processor.ConvertFormat(source, models.FormatParams{Format: "gif", Quality: 85})
		require.NoError(t, err)

		_, _, format := decodeDimensions(t, result)
		assert.Equal(t, "gif", format)
	})

	t.Run("unsupported_format", func(t *testing.T) {
		_, err := processor.ConvertFormat(source, models.FormatParams{Format: "tiff", Quality: 85})
		assert.ErrorAs(t, err, &models.UnsupportedFormatError{})
	})

	t.Run("quality_out_of_range", func(t *testing.T) {
		_, err := processor.ConvertFormat(source, models.FormatParams{Format: "jpeg", Quality: 0})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})

		_, err = processor.ConvertFormat(source, models.FormatParams{Format: "jpeg", Quality: 101})
		assert.ErrorAs(t, err, &models.InvalidParametersError{})
	})
}

func TestProcessorService_ApplyFilter(t *testing.T) {
	processor := NewProcessorService(4096, 4096, "#000000")
	source := encodeTestImage(t, 50, 50, imaging.PNG)

	t.Run("known_filters", func(t *testing.T) {
		for _, name := range []string{"grayscale", "sepia", "blur", "sharpen"} {
			result, err := processor.ApplyFilter(source, models.FilterParams{Filter: name})
			require.NoError(t, err, name)

			w, h, _ := decodeDimensions(t, result)
			assert.Equal(t, 50, w, name)
			assert.Equal(t, 50, h, name)
		}
	})

	t.Run("grayscale_removes_color", func(t *testing.T) {
		result, err := processor.ApplyFilter(source, models.FilterParams{Filter: "grayscale"})
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(result))
		require.NoError(t, err)

		r, g, b, _ := img.At(10, 40).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
	})

	t.Run("unknown_filter", func(t *testing.T) {
		_, err := processor.ApplyFilter(source, models.FilterParams{Filter: "posterize"})
		var filterErr models.UnsupportedFilterError
		require.ErrorAs(t, err, &filterErr)
		assert.Equal(t, "posterize", filterErr.Filter)
	})
}
