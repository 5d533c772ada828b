package certificates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"certidigital/internal/models"
	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCertificateService is a hand-written mock for controller tests.
type mockCertificateService struct {
	issued    *models.Certificate
	issueErr  error
	found     *models.Certificate
	getErr    error
	lastIssue *services.IssueCertificateRequest
}

func (m *mockCertificateService) Issue(ctx context.Context, req *services.IssueCertificateRequest) (*models.Certificate, error) {
	m.lastIssue = req
	return m.issued, m.issueErr
}

func (m *mockCertificateService) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	return m.found, m.getErr
}

func (m *mockCertificateService) List(ctx context.Context, req *services.ListCertificatesRequest) ([]models.Certificate, int64, error) {
	if m.found == nil {
		return nil, 0, nil
	}
	return []models.Certificate{*m.found}, 1, nil
}

func (m *mockCertificateService) ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error) {
	return nil, nil
}

func (m *mockCertificateService) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

func (m *mockCertificateService) BakedImagePath(ctx context.Context, id string) (string, error) {
	return "", services.NewNotFoundError("certificate has no baked badge image")
}

func (m *mockCertificateService) Update(ctx context.Context, id string, req *services.UpdateCertificateRequest) (*models.Certificate, error) {
	return m.found, m.getErr
}

func (m *mockCertificateService) Delete(ctx context.Context, id string) error {
	return m.getErr
}

// mockAssertionService serves canned verification documents.
type mockAssertionService struct {
	assertion *services.Assertion
	err       error
}

func (m *mockAssertionService) Assertion(ctx context.Context, certificateID string) (*services.Assertion, error) {
	return m.assertion, m.err
}

func (m *mockAssertionService) Build(cert *models.Certificate) (*services.Assertion, error) {
	return m.assertion, m.err
}

func (m *mockAssertionService) JSONLD(ctx context.Context, certificateID string) (*services.JSONLDDocument, error) {
	return nil, m.err
}

func (m *mockAssertionService) BadgeClassFor(badge *models.Badge) services.BadgeClass {
	return services.BadgeClass{}
}

func newTestRouter(controller *CertificateController) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/v1/certificates", controller.Issue)
	r.Get("/api/v1/certificates", controller.List)
	r.Get("/api/v1/certificates/assertions/{id}", controller.GetAssertion)
	r.Get("/api/v1/certificates/{id}", controller.Get)
	r.Get("/api/v1/certificates/{id}/pdf", controller.DownloadPDF)
	return r
}

func TestCertificateController_Issue(t *testing.T) {
	issued := &models.Certificate{
		ID:          "cert-1",
		RecipientID: "rcpt-1",
		BadgeID:     "badge-1",
		Status:      models.CertificateAccepted,
		Snapshot:    models.RecipientSnapshot{Name: "Ada Lovelace", Email: "ada@example.com"},
		IssuedAt:    time.Now().UTC(),
	}
	mockCerts := &mockCertificateService{issued: issued}
	controller := NewCertificateController(
		mockCerts,
		&mockAssertionService{},
		zap.NewNop(),
		response.NewBuilder(zap.NewNop()),
	)
	router := newTestRouter(controller)

	t.Run("successful issuance returns 201 with the certificate", func(t *testing.T) {
		body := `{
			"badge_id": "badge-1",
			"recipient": {
				"first_name": "Ada",
				"last_name": "Lovelace",
				"email": "ada@example.com",
				"national_id": "12345678A"
			}
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", strings.NewReader(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.Equal(t, true, envelope["success"])

		data, ok := envelope["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "cert-1", data["id"])
		assert.Equal(t, "accepted", data["status"])

		require.NotNil(t, mockCerts.lastIssue)
		assert.Equal(t, "badge-1", mockCerts.lastIssue.BadgeID)
		assert.Equal(t, "12345678A", mockCerts.lastIssue.Recipient.NationalID)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		errObj, ok := envelope["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", errObj["type"])
	})

	t.Run("duplicate identity conflict maps to 409", func(t *testing.T) {
		conflicting := &mockCertificateService{
			issueErr: services.NewConflictError("a recipient with this identity already exists", "DUPLICATE_IDENTITY"),
		}
		router := newTestRouter(NewCertificateController(
			conflicting, &mockAssertionService{}, zap.NewNop(), response.NewBuilder(zap.NewNop())))

		body := `{"badge_id":"badge-1","recipient":{"first_name":"A","last_name":"B","email":"a@b.com","national_id":"1"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", strings.NewReader(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCertificateController_GetAssertion(t *testing.T) {
	assertion := &services.Assertion{
		Context: services.OpenBadgeContext,
		Type:    "Assertion",
		ID:      "https://api.example.com/api/v1/certificates/assertions/cert-1",
		Recipient: services.AssertionRecipient{
			Type:     "email",
			Hashed:   false,
			Identity: "ada@example.com",
		},
		Badge:        "https://api.example.com/api/v1/badges/openbadge/badge-1.json",
		IssuedOn:     "2026-08-28T10:00:00Z",
		Verification: services.AssertionVerification{Type: "HostedBadge"},
		Issuer:       "https://api.example.com/api/v1/organizations/org-1",
	}
	controller := NewCertificateController(
		&mockCertificateService{},
		&mockAssertionService{assertion: assertion},
		zap.NewNop(),
		response.NewBuilder(zap.NewNop()),
	)
	router := newTestRouter(controller)

	t.Run("serves the bare document without envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/assertions/cert-1", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
		assert.Equal(t, services.OpenBadgeContext, doc["@context"])
		assert.Equal(t, "Assertion", doc["type"])
		assert.NotContains(t, doc, "success")

		recipient, ok := doc["recipient"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, false, recipient["hashed"])
		assert.Equal(t, "ada@example.com", recipient["identity"])
	})

	t.Run("missing certificate returns 404", func(t *testing.T) {
		router := newTestRouter(NewCertificateController(
			&mockCertificateService{},
			&mockAssertionService{err: services.EntityNotFoundError("certificate", "nope")},
			zap.NewNop(),
			response.NewBuilder(zap.NewNop()),
		))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/assertions/nope", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCertificateController_DownloadPDF(t *testing.T) {
	controller := NewCertificateController(
		&mockCertificateService{},
		&mockAssertionService{},
		zap.NewNop(),
		response.NewBuilder(zap.NewNop()),
	)
	router := newTestRouter(controller)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/cert-1/pdf", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "certificado-cert-1.pdf")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))
}
