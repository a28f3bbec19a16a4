package idcard

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

func TestRenderProducesCardSizedPNG(t *testing.T) {
	qrPNG, err := qr.EncodePNG(qr.EncodeToken(5), QRSize)
	require.NoError(t, err)

	card, err := Render("Kohinoor Cloth", "alice", "staff", qrPNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(card))
	require.NoError(t, err)
	assert.Equal(t, CardWidth, img.Bounds().Dx())
	assert.Equal(t, CardHeight, img.Bounds().Dy())
}

func TestRenderedCardStillScans(t *testing.T) {
	token := qr.EncodeToken(9)
	qrPNG, err := qr.EncodePNG(token, QRSize)
	require.NoError(t, err)

	card, err := Render("Kohinoor Cloth", "bob", "staff", qrPNG)
	require.NoError(t, err)

	decoded, err := qr.DecodePNG(card)
	require.NoError(t, err)
	assert.Equal(t, token, decoded)
}

func TestRenderRejectsBadQR(t *testing.T) {
	_, err := Render("Kohinoor Cloth", "alice", "staff", []byte("junk"))
	assert.Error(t, err)
}
