package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrInvalidToken is returned when a scanned payload is not a valid
// attendance token.
var ErrInvalidToken = errors.New("invalid QR token")

// tokenPrefix is the wire format of attendance QR codes: "ATTEND:<user id>".
const tokenPrefix = "ATTEND:"

// EncodeToken returns the QR payload for a user.
func EncodeToken(userID uint) string {
	return fmt.Sprintf("%s%d", tokenPrefix, userID)
}

// ParseToken extracts the user id from a scanned payload.
func ParseToken(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, tokenPrefix) {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(raw[len(tokenPrefix):], 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// EncodePNG renders a token as a size x size QR code PNG.
func EncodePNG(token string, size int) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, size)
}

// DecodePNG scans an uploaded image (PNG or JPEG, e.g. a phone photo
// of a staff card) and returns the embedded token text.
func DecodePNG(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidToken
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrInvalidToken
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrInvalidToken
	}
	return result.GetText(), nil
}
