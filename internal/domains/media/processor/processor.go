package processor

//go:generate go run go.uber.org/mock/mockgen -source=./processor.go -destination=../mocks/processor_mock.go -package=mocks

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"sync"
	"vprime/config"
	"vprime/internal/domains/media/model"
	"vprime/shared/constant"

	"github.com/chai2010/webp"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	defaultWatermarkText = "VPRIME LIGHTS"

	watermarkFontRatio    = 0.04
	watermarkPaddingRatio = 0.03
	watermarkOpacity      = 0.5
	shadowOpacity         = 0.8
	shadowBlurPx          = 4
	shadowOffsetPx        = 2
	reencodeQuality       = 95

	compressStartQuality = 90
	compressQualityStep  = 10
	compressMinQuality   = 40
	compressScaleStep    = 0.8
	compressMaxScaleIter = 10
	defaultMaxDimension  = 1920
	defaultMaxPixels     = 50_000_000
	defaultMaxSizeMB     = 0.3
	bytesPerMB           = 1024 * 1024
)

var (
	ErrDecodeImage     = errors.New("failed to decode image")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEncodeImage     = errors.New("failed to encode image")
	ErrImageTooLarge   = errors.New("image dimensions exceed the pixel limit")
)

// Processor runs the CPU-bound stages of the ingestion pipeline.
type Processor interface {
	Watermark(file model.File) (model.File, error)
	Compress(file model.File) (model.File, error)
	CompressOrOriginal(file model.File) model.File
}

type processorImpl struct {
	text         string
	maxDimension int
	maxBytes     int
	maxPixels    int
}

var (
	boldFont     *opentype.Font
	boldFontErr  error
	boldFontOnce sync.Once
)

func loadFont() (*opentype.Font, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = opentype.Parse(gobold.TTF)
	})

	return boldFont, boldFontErr
}

func New(cfg *config.Config) Processor {
	p := &processorImpl{
		text:         cfg.Media.WatermarkText,
		maxDimension: cfg.Media.Compression.MaxDimension,
		maxBytes:     megabytes(cfg.Media.Compression.MaxSizeMB),
		maxPixels:    cfg.Media.MaxPixels,
	}

	if p.text == constant.Empty {
		p.text = defaultWatermarkText
	}

	if p.maxDimension < 1 {
		p.maxDimension = defaultMaxDimension
	}

	if p.maxPixels < 1 {
		p.maxPixels = defaultMaxPixels
	}

	if p.maxBytes < 1 {
		p.maxBytes = megabytes(defaultMaxSizeMB)
	}

	return p
}

func megabytes(mb float64) int {
	return int(mb * bytesPerMB)
}

// decode reads the header first so an image whose pixel count exceeds the limit is refused before
// its pixels are allocated.
func (p *processorImpl) decode(file model.File) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return nil, "", fmt.Errorf("%w (%s): %w", ErrDecodeImage, file.Name, err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(p.maxPixels) {
		return nil, "", fmt.Errorf("%w (%s): %dx%d", ErrImageTooLarge, file.Name, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return nil, "", fmt.Errorf("%w (%s): %w", ErrDecodeImage, file.Name, err)
	}

	return img, format, nil
}

func contentTypeOf(file model.File, format string) string {
	if file.ContentType != constant.Empty {
		return file.ContentType
	}

	return "image/" + format
}

// Watermark stamps the brand text bottom-right and re-encodes to the input type.
func (p *processorImpl) Watermark(file model.File) (model.File, error) {
	src, format, err := p.decode(file)
	if err != nil {
		return file, err
	}

	contentType := contentTypeOf(file, format)
	if !canEncode(contentType) {
		return file, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	canvas := imaging.Clone(src)

	if err := p.stamp(canvas); err != nil {
		return file, err
	}

	data, err := encode(canvas, contentType, reencodeQuality)
	if err != nil {
		return file, err
	}

	return model.File{
		Name:        file.Name,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (p *processorImpl) stamp(canvas *image.NRGBA) error {
	bounds := canvas.Bounds()
	width := bounds.Dx()

	fontSize := max(1, int(math.Floor(float64(width)*watermarkFontRatio)))
	padding := int(math.Floor(float64(width) * watermarkPaddingRatio))

	parsed, err := loadFont()
	if err != nil {
		return fmt.Errorf("failed to load watermark font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create watermark face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	advance := font.MeasureString(face, p.text).Ceil()

	// Right aligned, bottom of the em box sitting on the padding line.
	x := bounds.Max.X - padding - advance
	baseline := bounds.Max.Y - padding - metrics.Descent.Ceil()

	textRect := image.Rect(x, baseline-metrics.Ascent.Ceil(), x+advance, baseline+metrics.Descent.Ceil())
	shadowRect := textRect.Add(image.Pt(shadowOffsetPx, shadowOffsetPx)).Inset(-2 * shadowBlurPx).Intersect(bounds)

	if !shadowRect.Empty() {
		layer := image.NewNRGBA(shadowRect)
		drawText(layer, face, p.text, x+shadowOffsetPx, baseline+shadowOffsetPx, color.NRGBA{A: uint8(math.Round(shadowOpacity * 255))})

		// Canvas shadowBlur maps to a gaussian with sigma = blur / 2.
		blur := gift.New(gift.GaussianBlur(shadowBlurPx / 2))
		blurred := image.NewNRGBA(blur.Bounds(layer.Bounds()))
		blur.Draw(blurred, layer)

		draw.DrawMask(canvas, shadowRect, blurred, image.Point{}, opacityMask(), image.Point{}, draw.Over)
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(math.Round(watermarkOpacity * 255))}
	drawText(canvas, face, p.text, x, baseline, white)

	return nil
}

func opacityMask() image.Image {
	return image.NewUniform(color.Alpha{A: uint8(math.Round(watermarkOpacity * 255))})
}

func drawText(dst draw.Image, face font.Face, text string, x, baseline int, c color.Color) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
}

func canEncode(contentType string) bool {
	switch contentType {
	case constant.ContentTypeJPEG, constant.ContentTypePNG, constant.ContentTypeGIF, constant.ContentTypeWebP:
		return true
	default:
		return false
	}
}

func encode(img image.Image, contentType string, quality int) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)

	switch contentType {
	case constant.ContentTypeJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case constant.ContentTypePNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case constant.ContentTypeGIF:
		err = imaging.Encode(&buf, img, imaging.GIF)
	case constant.ContentTypeWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeImage, err)
	}

	return buf.Bytes(), nil
}

// Compress re-encodes to WebP within the configured dimension and size targets.
// Quality steps down first, then the image shrinks. When that still grows an
// image that was never downscaled, the input comes back untouched.
func (p *processorImpl) Compress(file model.File) (model.File, error) {
	src, _, err := p.decode(file)
	if err != nil {
		return file, err
	}

	img := src
	downscaled := false

	if b := src.Bounds(); max(b.Dx(), b.Dy()) > p.maxDimension {
		img = imaging.Fit(src, p.maxDimension, p.maxDimension, imaging.Lanczos)
		downscaled = true
	}

	quality := compressStartQuality
	scaleIterations := 0

	var data []byte

	for {
		data, err = encode(img, constant.ContentTypeWebP, quality)
		if err != nil {
			return file, err
		}

		if len(data) <= p.maxBytes {
			break
		}

		if quality > compressMinQuality {
			quality = max(compressMinQuality, quality-compressQualityStep)

			continue
		}

		b := img.Bounds()
		nextWidth := int(float64(b.Dx()) * compressScaleStep)
		nextHeight := int(float64(b.Dy()) * compressScaleStep)

		if scaleIterations >= compressMaxScaleIter || nextWidth < 1 || nextHeight < 1 {
			break
		}

		img = imaging.Resize(img, nextWidth, nextHeight, imaging.Lanczos)
		downscaled = true
		scaleIterations++
	}

	if len(data) > len(file.Data) && !downscaled {
		return file, nil
	}

	return model.File{
		Name:        file.BaseName() + ".webp",
		ContentType: constant.ContentTypeWebP,
		Data:        data,
	}, nil
}

// CompressOrOriginal never fails: any compression error yields the input.
func (p *processorImpl) CompressOrOriginal(file model.File) model.File {
	compressed, err := p.Compress(file)
	if err != nil {
		log.Warn().Err(err).Str("file", file.Name).Msg("compression failed, keeping original")

		return file
	}

	return compressed
}

// SniffContentType reports the image type encoded in data, or "" when it is not one we handle.
func SniffContentType(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return constant.Empty
	}

	if contentType := "image/" + format; canEncode(contentType) {
		return contentType
	}

	return constant.Empty
}
