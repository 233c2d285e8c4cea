package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/platform"
	"github.com/mypetid/document-service/internal/router"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"
)

const testSecret = "test-secret"

// -------- fakes --------

type fakeDocumentService struct {
	services.DocumentService

	uploadReq  *models.UploadRequest
	uploadResp *models.UploadResponse
	uploadErr  error

	updateUpd models.DocumentUpdate

	resolveUA  string
	resolveErr error

	openDoc  *models.Document
	openData []byte
	openErr  error
}

func (f *fakeDocumentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	f.uploadReq = req
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.uploadResp != nil {
		return f.uploadResp, nil
	}
	return &models.UploadResponse{ID: "doc-1", Name: req.Name, Category: req.Category, CreatedAt: time.Now()}, nil
}

func (f *fakeDocumentService) UpdateDocument(ctx context.Context, userID, id string, upd models.DocumentUpdate) (*models.Document, error) {
	f.updateUpd = upd
	return &models.Document{ID: id, UserID: userID}, nil
}

func (f *fakeDocumentService) ResolveShare(ctx context.Context, shareID, userAgent string) (*services.SharedDocument, error) {
	f.resolveUA = userAgent
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &services.SharedDocument{
		Name:     "Vaccine Record",
		Category: models.CategoryVaccinationRecord,
		FileType: "application/pdf",
		Delivery: platform.PlanFor(userAgent),
	}, nil
}

func (f *fakeDocumentService) OpenSharedFile(ctx context.Context, shareID string) (io.ReadCloser, *models.Document, error) {
	if f.openErr != nil {
		return nil, nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.openData)), f.openDoc, nil
}

// -------- helpers --------

func newTestRouter(t *testing.T, docSvc services.DocumentService) http.Handler {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     testSecret,
		PublicBaseURL: "https://mypetid.app",
		SignedURLTTL:  24 * time.Hour,
	}
	return router.NewRouter(router.Services{Documents: docSvc}, cfg, utils.NewLogger("error"))
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func multipartUpload(t *testing.T, filename string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(fileData)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

const uaIPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) Mobile/15E148 Safari/604.1"

// -------- tests --------

func TestUploadDocumentEndpoint(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	body, contentType := multipartUpload(t, "vaccine.pdf", bytes.Repeat([]byte{1}, 1024), map[string]string{
		"name":     "Vaccine Record",
		"category": "vaccination_record",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.uploadReq)
	assert.Equal(t, "user-1", svc.uploadReq.UserID)
	assert.Equal(t, "Vaccine Record", svc.uploadReq.Name)
	assert.Equal(t, models.CategoryVaccinationRecord, svc.uploadReq.Category)
	assert.Equal(t, "application/pdf", svc.uploadReq.ContentType, "content type comes from the filename extension")
	assert.Nil(t, svc.uploadReq.PetID)
	assert.Len(t, svc.uploadReq.File, 1024)
}

func TestUploadDocumentRequiresAuth(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	body, contentType := multipartUpload(t, "vaccine.pdf", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.uploadReq, "unauthenticated requests never reach the service")
}

func TestUploadDocumentRejectsOversizedBody(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	body, contentType := multipartUpload(t, "big.pdf", make([]byte, 11<<20), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.uploadReq, "oversized uploads are rejected at the handler")
}

func TestUpdateDocumentClearsPetAssociation(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/documents/doc-1", strings.NewReader(`{"pet_id": null}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updateUpd.PetID, "pet_id:null must reach the service as an explicit clear")
	assert.Nil(t, *svc.updateUpd.PetID)
}

func TestUpdateDocumentLeavesPetUntouchedWhenAbsent(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/documents/doc-1", strings.NewReader(`{"name": "New Name"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.updateUpd.PetID)
	require.NotNil(t, svc.updateUpd.Name)
	assert.Equal(t, "New Name", *svc.updateUpd.Name)
}

func TestResolveShareReturnsIOSPlan(t *testing.T) {
	svc := &fakeDocumentService{}
	handler := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/shared/share-abc", nil)
	req.Header.Set("User-Agent", uaIPhone)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uaIPhone, svc.resolveUA)

	var resp services.SharedDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, platform.IOS, resp.Delivery.Platform)
	assert.Equal(t, platform.ModeInline, resp.Delivery.Mode)
	assert.NotEmpty(t, resp.Delivery.Instructions)
}

func TestResolveShareExpiredRendersErrorState(t *testing.T) {
	svc := &fakeDocumentService{resolveErr: utils.NewGoneError("This share link has expired")}
	handler := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/shared/share-old", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestDownloadSharedDisposition(t *testing.T) {
	doc := &models.Document{
		ID:       "doc-1",
		Name:     "Vaccine Record",
		FileKey:  "owner/x/1.pdf",
		FileType: "application/pdf",
		FileSize: 9,
	}

	tests := []struct {
		name  string
		ua    string
		query string
		want  string
	}{
		{"android gets attachment", "Mozilla/5.0 (Linux; Android 14) Chrome/124.0", "", "attachment"},
		{"desktop gets attachment", "Mozilla/5.0 (Windows NT 10.0)", "", "attachment"},
		{"ios gets inline", uaIPhone, "", "inline"},
		{"fallback forces inline", "Mozilla/5.0 (Windows NT 10.0)", "?mode=inline", "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeDocumentService{openDoc: doc, openData: []byte("pdf-bytes")}
			handler := newTestRouter(t, svc)

			req := httptest.NewRequest(http.MethodGet, "/shared/share-abc/download"+tt.query, nil)
			req.Header.Set("User-Agent", tt.ua)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.want)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "Vaccine Record.pdf")
			assert.Equal(t, "pdf-bytes", rec.Body.String())
		})
	}
}
