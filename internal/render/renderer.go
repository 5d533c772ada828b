// Package render composes issued certificates into fixed-size PDF
// documents from a template's coordinate and style configuration.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"certidigital/internal/models"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Page geometry and element sizing, in PDF user units.
const (
	PageWidth  = 1000.0
	PageHeight = 707.0

	qrSize        = 100.0
	badgeIconSize = 100.0

	// Baseline shift applied to every templated text element. Template y
	// coordinates address the element's design position top-down; the
	// drawn baseline sits this far below it.
	textBaselineShift = 20.0

	nameShiftX = 30.0
	dateShiftX = 50.0

	certIDFontSize = 12.0
)

// Fallback coordinates used when the template leaves an element unset.
const (
	defaultQRX     = 80.0
	defaultQRY     = 500.0
	defaultNameX   = 400.0
	defaultNameY   = 200.0
	defaultDateX   = 400.0
	defaultDateY   = 300.0
	defaultBadgeX  = 800.0
	defaultBadgeY  = 50.0
	defaultCertIDX = 80.0
	defaultCertIDY = 600.0
)

var (
	// ErrNoTemplate means the certificate has no associated template.
	ErrNoTemplate = errors.New("render: certificate has no template")
	// ErrNoOwner means the certificate's recipient could not be resolved.
	ErrNoOwner = errors.New("render: certificate has no recipient")
	// ErrBackgroundNotFound means the template background file is missing.
	ErrBackgroundNotFound = errors.New("render: background image not found")
	// ErrInvalidIssuanceDate means the issuance date is not a valid calendar date.
	ErrInvalidIssuanceDate = errors.New("render: invalid issuance date")
	// ErrUnsupportedImage means an image is neither PNG nor JPEG.
	ErrUnsupportedImage = errors.New("render: unsupported image format")
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate renders a date as "<day> de <month> de <year>" with
// Spanish month names.
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// Renderer builds certificate PDFs. Remote badge images are fetched with
// the configured client; no retry is attempted, a failing fetch fails the
// render.
type Renderer struct {
	uploadsDir string
	publicURL  string
	client     *http.Client
	logger     *zap.Logger
}

// NewRenderer creates a renderer. publicURL is the base of the
// human-facing verification site encoded into the QR code.
func NewRenderer(uploadsDir, publicURL string, client *http.Client, logger *zap.Logger) *Renderer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Renderer{
		uploadsDir: uploadsDir,
		publicURL:  strings.TrimRight(publicURL, "/"),
		client:     client,
		logger:     logger,
	}
}

// VerificationURL returns the public URL a certificate's QR code points at.
func (r *Renderer) VerificationURL(certificateID string) string {
	return fmt.Sprintf("%s/beneficiario/certificado/%s", r.publicURL, certificateID)
}

// Render composes the certificate PDF and returns it as a byte buffer.
// The certificate must arrive with its Template, Owner and Badge
// relations hydrated.
func (r *Renderer) Render(cert *models.Certificate) ([]byte, error) {
	if cert.Template == nil {
		return nil, ErrNoTemplate
	}
	if cert.Owner == nil {
		return nil, ErrNoOwner
	}
	if cert.IssuedAt.IsZero() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIssuanceDate, cert.IssuedAt)
	}

	tpl := cert.Template

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	// Background, full bleed. A template without one is valid.
	if tpl.BackgroundPath != nil && *tpl.BackgroundPath != "" {
		if err := r.drawBackground(pdf, *tpl.BackgroundPath); err != nil {
			return nil, err
		}
	}

	// QR code with the public verification link.
	qrPNG, err := qrcode.Encode(r.VerificationURL(cert.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render: encode qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verification-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("verification-qr",
		coalesce(tpl.QRX, defaultQRX), coalesce(tpl.QRY, defaultQRY),
		qrSize, qrSize, false, opts, 0, "")

	// Dynamic text: recipient name and long-form issuance date. Styles
	// come from the template's rich-text fragments with neutral
	// fallbacks.
	drawStyledText(pdf, cert.Owner.FullName(),
		coalesce(tpl.NameX, defaultNameX), coalesce(tpl.NameY, defaultNameY),
		ParseStyle(tpl.NameContent), nameShiftX)
	drawStyledText(pdf, FormatLongDate(cert.IssuedAt),
		coalesce(tpl.DateX, defaultDateX), coalesce(tpl.DateY, defaultDateY),
		ParseStyle(tpl.DateContent), dateShiftX)

	// Certificate id in plain bold text, always legible regardless of
	// template styling, for manual lookup.
	pdf.SetFont("Helvetica", "B", certIDFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(coalesce(tpl.CertIDX, defaultCertIDX),
		coalesce(tpl.CertIDY, defaultCertIDY)+textBaselineShift, cert.ID)

	// Badge icon, if the badge has a master image.
	if cert.Badge != nil && cert.Badge.ImagePath != "" {
		if err := r.drawBadgeIcon(pdf, cert.Badge.ImagePath,
			coalesce(tpl.BadgeX, defaultBadgeX), coalesce(tpl.BadgeY, defaultBadgeY)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: serialize pdf: %w", err)
	}

	r.logger.Info("rendered certificate pdf",
		zap.String("certificate_id", cert.ID),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

// drawBackground resolves the background reference to a local file and
// draws it across the whole page. Remote URLs are mapped into the
// uploads directory by filename.
func (r *Renderer) drawBackground(pdf *gofpdf.Fpdf, ref string) error {
	localPath := ref
	if strings.HasPrefix(ref, "http") {
		u, err := url.Parse(ref)
		if err != nil {
			return fmt.Errorf("render: parse background url %q: %w", ref, err)
		}
		localPath = filepath.Join(r.uploadsDir, path.Base(u.Path))
	}

	if _, err := os.Stat(localPath); err != nil {
		return fmt.Errorf("%w: %s", ErrBackgroundNotFound, localPath)
	}

	imgType, err := imageTypeFromExt(localPath)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.ImageOptions(localPath, 0, 0, PageWidth, PageHeight, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("render: draw background %s: %w", localPath, pdf.Error())
	}
	return nil
}

// drawBadgeIcon resolves the badge image (local path or remote URL) and
// draws it at the template's badge coordinates.
func (r *Renderer) drawBadgeIcon(pdf *gofpdf.Fpdf, ref string, x, y float64) error {
	imgType, err := imageTypeFromExt(ref)
	if err != nil {
		return err
	}

	var reader io.Reader
	if strings.HasPrefix(ref, "http") {
		resp, err := r.client.Get(ref)
		if err != nil {
			return fmt.Errorf("render: fetch badge image %s: %w", ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("render: fetch badge image %s: status %d", ref, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("render: read badge image %s: %w", ref, err)
		}
		reader = bytes.NewReader(body)
	} else {
		data, err := os.ReadFile(ref)
		if err != nil {
			return fmt.Errorf("render: read badge image %s: %w", ref, err)
		}
		reader = bytes.NewReader(data)
	}

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader("badge-icon", opts, reader)
	pdf.ImageOptions("badge-icon", x, y, badgeIconSize, badgeIconSize, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("render: draw badge image %s: %w", ref, pdf.Error())
	}
	return nil
}

// drawStyledText centers text horizontally on its anchor x, shifts it by
// the element's fixed offset and draws the baseline below the template y.
func drawStyledText(pdf *gofpdf.Fpdf, text string, x, y float64, style TextStyle, shiftX float64) {
	pdf.SetFont(style.FontName(), "", style.SizePx)
	cr, cg, cb := style.RGB()
	pdf.SetTextColor(cr, cg, cb)

	width := pdf.GetStringWidth(text)
	pdf.Text(x-width/2+shiftX, y+textBaselineShift, text)
}

func imageTypeFromExt(ref string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(strippedQuery(ref)), ".")) {
	case "png":
		return "PNG", nil
	case "jpg", "jpeg":
		return "JPG", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, ref)
	}
}

func strippedQuery(ref string) string {
	if i := strings.IndexByte(ref, '?'); i >= 0 {
		return ref[:i]
	}
	return ref
}

func coalesce(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
