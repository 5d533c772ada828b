package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"certidigital/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func float64Ptr(v float64) *float64 { return &v }

func testCertificate() *models.Certificate {
	return &models.Certificate{
		ID:       "cert-abc",
		IssuedAt: time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC),
		Owner: &models.Recipient{
			FirstName: "Ana",
			LastName:  "Quispe",
			Email:     "ana@example.com",
		},
		Badge: &models.Badge{
			ID:   "badge-1",
			Name: "Go Fundamentals",
		},
		Template: &models.CertificateTemplate{
			ID:      "tpl-1",
			BadgeID: "badge-1",
		},
	}
}

func writeBadgePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRenderWithoutBackgroundProducesValidDocument(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, "https://certs.example.com", nil, zap.NewNop())

	out, err := r.Render(testCertificate())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is not a PDF")
	assert.Contains(t, string(out[:2048]), "1000.00 707.00", "unexpected page size")
}

func TestRenderWithBackgroundAndBadgeIcon(t *testing.T) {
	dir := t.TempDir()
	background := writeBadgePNG(t, dir, "fondo.png")
	icon := writeBadgePNG(t, dir, "badge.png")

	cert := testCertificate()
	cert.Template.BackgroundPath = &background
	cert.Template.QRX = float64Ptr(120)
	cert.Template.QRY = float64Ptr(450)
	cert.Badge.ImagePath = icon

	r := NewRenderer(dir, "https://certs.example.com", nil, zap.NewNop())
	out, err := r.Render(cert)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderRemoteBackgroundMapsToUploadsDir(t *testing.T) {
	dir := t.TempDir()
	writeBadgePNG(t, dir, "fondo.png")

	cert := testCertificate()
	remote := "https://cdn.example.com/assets/fondo.png"
	cert.Template.BackgroundPath = &remote

	r := NewRenderer(dir, "https://certs.example.com", nil, zap.NewNop())
	_, err := r.Render(cert)
	assert.NoError(t, err)
}

func TestRenderMissingBackgroundFails(t *testing.T) {
	dir := t.TempDir()
	cert := testCertificate()
	missing := filepath.Join(dir, "no-such-file.png")
	cert.Template.BackgroundPath = &missing

	r := NewRenderer(dir, "https://certs.example.com", nil, zap.NewNop())
	_, err := r.Render(cert)
	assert.True(t, errors.Is(err, ErrBackgroundNotFound))
}

func TestRenderInvalidIssuanceDateFails(t *testing.T) {
	cert := testCertificate()
	cert.IssuedAt = time.Time{}

	r := NewRenderer(t.TempDir(), "https://certs.example.com", nil, zap.NewNop())
	_, err := r.Render(cert)
	assert.True(t, errors.Is(err, ErrInvalidIssuanceDate))
}

func TestRenderUnsupportedBadgeFormatFails(t *testing.T) {
	dir := t.TempDir()
	cert := testCertificate()
	cert.Badge.ImagePath = filepath.Join(dir, "badge.svg")

	r := NewRenderer(dir, "https://certs.example.com", nil, zap.NewNop())
	_, err := r.Render(cert)
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
}

func TestRenderRequiresTemplateAndOwner(t *testing.T) {
	r := NewRenderer(t.TempDir(), "https://certs.example.com", nil, zap.NewNop())

	cert := testCertificate()
	cert.Template = nil
	_, err := r.Render(cert)
	assert.True(t, errors.Is(err, ErrNoTemplate))

	cert = testCertificate()
	cert.Owner = nil
	_, err = r.Render(cert)
	assert.True(t, errors.Is(err, ErrNoOwner))
}

func TestVerificationURL(t *testing.T) {
	r := NewRenderer(t.TempDir(), "https://certs.example.com/", nil, zap.NewNop())
	assert.Equal(t,
		"https://certs.example.com/beneficiario/certificado/abc-123",
		r.VerificationURL("abc-123"))
}
