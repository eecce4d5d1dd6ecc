// Package media готовит загружаемые фотографии к хранению.
package media

import (
	"bytes"
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmpty    = errors.New("empty file")
	ErrTooLarge = errors.New("file exceeds upload limit")
	ErrNotImage = errors.New("file is not an image")
)

// Prepared - файл, готовый к загрузке в хранилище
type Prepared struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
	Resized     bool
}

// Processor уменьшает крупные изображения до MaxDimension по большей стороне
type Processor struct {
	maxDimension int
	jpegQuality  int
	maxBytes     int
}

func NewProcessor(maxDimension, jpegQuality, maxUploadMB int) *Processor {
	return &Processor{
		maxDimension: maxDimension,
		jpegQuality:  jpegQuality,
		maxBytes:     maxUploadMB << 20,
	}
}

// Prepare проверяет тип по содержимому и при необходимости уменьшает изображение.
// GIF и форматы, которые не декодируются, сохраняются как есть.
func (p *Processor) Prepare(data []byte) (*Prepared, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if p.maxBytes > 0 && len(data) > p.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	out := &Prepared{Data: data, ContentType: mt.String(), Extension: mt.Extension()}
	if !mt.Is("image/jpeg") && !mt.Is("image/png") && !mt.Is("image/webp") {
		return out, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	b := img.Bounds()
	out.Width, out.Height = b.Dx(), b.Dy()

	// webp перекодируется всегда: imaging не умеет его записывать
	if !mt.Is("image/webp") && (p.maxDimension <= 0 || max(out.Width, out.Height) <= p.maxDimension) {
		return out, nil
	}

	if p.maxDimension > 0 && max(out.Width, out.Height) > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		b = img.Bounds()
		out.Width, out.Height = b.Dx(), b.Dy()
	}

	format, contentType, ext := imaging.JPEG, "image/jpeg", ".jpg"
	if mt.Is("image/png") {
		format, contentType, ext = imaging.PNG, "image/png", ".png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(p.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	out.Data = buf.Bytes()
	out.ContentType = contentType
	out.Extension = ext
	out.Resized = true
	return out, nil
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
