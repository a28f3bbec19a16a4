// Package idcard renders the printable staff ID card: a 400x200 white
// card with the shop name, the holder's name and role, and their
// attendance QR code on the right.
package idcard

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	CardWidth  = 400
	CardHeight = 200

	// QRSize is the edge length the QR code must be rendered at to fit
	// the card layout.
	QRSize = 140
)

// Render composes the card and returns it as PNG bytes. qrPNG must be
// a QRSize x QRSize PNG (as produced by qr.EncodePNG).
func Render(shopName, username, role string, qrPNG []byte) ([]byte, error) {
	card := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(card, card.Bounds(), image.White, image.Point{}, draw.Src)

	// Header bar.
	header := image.Rect(0, 0, CardWidth, 36)
	draw.Draw(card, header, image.NewUniform(color.RGBA{R: 0x2b, G: 0x3a, B: 0x67, A: 0xff}), image.Point{}, draw.Src)

	drawText(card, 12, 24, shopName, color.White)
	drawText(card, 12, 86, "Name: "+username, color.Black)
	drawText(card, 12, 110, "Role: "+role, color.Black)
	drawText(card, 12, 182, "Scan to check in / out", color.Black)

	qrImg, err := png.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return nil, err
	}
	qrPos := image.Rect(CardWidth-QRSize-10, 46, CardWidth-10, 46+QRSize)
	draw.Draw(card, qrPos, qrImg, qrImg.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, card); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
