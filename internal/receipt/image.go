package receipt

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/vitalis/internal/patient"
)

const (
	margin  = 16
	qrSize  = 160
	lineGap = 4
)

// Render draws the receipt lines in basicfont 7x13 above a QR code of the
// reference ID.
func Render(rec patient.Record, hospital string) (*image.RGBA, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("receipt needs a reference ID")
	}

	qr, err := qrcode.New(rec.ID, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	qr.DisableBorder = true
	code := qr.Image(qrSize)

	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() + lineGap

	lines := Lines(rec, hospital)
	textWidth := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > textWidth {
			textWidth = w
		}
	}

	width := max(textWidth, qrSize) + 2*margin
	textHeight := len(lines) * lineHeight
	height := margin + textHeight + margin + qrSize + margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, l := range lines {
		y := margin + i*lineHeight + metrics.Ascent.Ceil()
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(l)
	}

	qrX := (width - qrSize) / 2
	qrY := margin + textHeight + margin
	draw.Draw(img, image.Rect(qrX, qrY, qrX+qrSize, qrY+qrSize), code, code.Bounds().Min, draw.Src)

	return img, nil
}

// WritePNG encodes the rendered receipt to w.
func WritePNG(w io.Writer, rec patient.Record, hospital string) error {
	img, err := Render(rec, hospital)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Save writes <ID>.txt and <ID>.png into dir and returns the PNG path.
func Save(dir string, rec patient.Record, hospital string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}

	txtPath := filepath.Join(dir, rec.ID+".txt")
	if err := os.WriteFile(txtPath, []byte(Text(rec, hospital)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", txtPath, err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, rec, hospital); err != nil {
		return "", err
	}
	pngPath := filepath.Join(dir, rec.ID+".png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", pngPath, err)
	}
	return pngPath, nil
}
