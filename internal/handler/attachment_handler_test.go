package handler

import (
	"bytes"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(640, 480, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, target, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestUploadAttachment_ImageWithThumbnail(t *testing.T) {
	a := newTestAPI(t)
	tx := seedTransactions(a)[1]

	rec := a.serve(uploadRequest(t, "/api/transactions/"+tx.ID+"/attachments", "nota.png", testPNG(t)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	attachment := decodeBody[domain.Attachment](t, rec)
	assert.NotEmpty(t, attachment.ID)
	assert.Equal(t, "image/png", attachment.MimeType)
	assert.Equal(t, "nota.png", attachment.OriginalName)
	assert.NotEmpty(t, attachment.URL)
	assert.NotEmpty(t, attachment.ThumbnailURL)
	assert.Equal(t, 2, a.objects.Len())

	stored := a.txRepo.Transactions[tx.ID]
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, attachment.ID, stored.Attachments[0].ID)

	rec = a.do(http.MethodGet, "/api/transactions/"+tx.ID, "")
	assert.Len(t, decodeBody[api.Transaction](t, rec).Attachments, 1)
}

func TestUploadAttachment_PDF(t *testing.T) {
	a := newTestAPI(t)
	tx := seedTransactions(a)[0]

	rec := a.serve(uploadRequest(t, "/api/transactions/"+tx.ID+"/attachments", "recibo.pdf", []byte("%PDF-1.4\n%test document\n")))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	attachment := decodeBody[domain.Attachment](t, rec)
	assert.Equal(t, "application/pdf", attachment.MimeType)
	assert.Empty(t, attachment.ThumbnailURL)
	assert.Equal(t, 1, a.objects.Len())
}

func TestUploadAttachment_Rejected(t *testing.T) {
	a := newTestAPI(t)
	tx := seedTransactions(a)[0]

	rec := a.serve(uploadRequest(t, "/api/transactions/"+tx.ID+"/attachments", "notes.txt", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.serve(uploadRequest(t, "/api/transactions/missing/attachments", "nota.png", testPNG(t)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/transactions/"+tx.ID+"/attachments", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeBody[api.ErrorResponse](t, rec).Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "file", errs[0].Field)

	assert.Equal(t, 0, a.objects.Len())
}

func TestDeleteAttachment(t *testing.T) {
	a := newTestAPI(t)
	tx := seedTransactions(a)[1]
	rec := a.serve(uploadRequest(t, "/api/transactions/"+tx.ID+"/attachments", "nota.png", testPNG(t)))
	require.Equal(t, http.StatusCreated, rec.Code)
	attachment := decodeBody[domain.Attachment](t, rec)

	rec = a.do(http.MethodDelete, "/api/transactions/"+tx.ID+"/attachments/"+attachment.ID, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, a.objects.Deleted, 2)
	assert.Equal(t, 0, a.objects.Len())
	assert.Empty(t, a.txRepo.Transactions[tx.ID].Attachments)

	rec = a.do(http.MethodDelete, "/api/transactions/"+tx.ID+"/attachments/"+attachment.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Attachment not found", decodeBody[api.ErrorResponse](t, rec).Error)
}

func TestAttachments_StorageNotConfigured(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	tx := repo.AddTransaction(testutil.NewTransaction("Mercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, 1, 10)))
	h := NewAttachmentHandler(service.NewAttachmentService(repo, nil))

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.POST("/api/transactions/:id/attachments", h.UploadAttachment)
	e.DELETE("/api/transactions/:id/attachments/:attachmentId", h.DeleteAttachment)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "/api/transactions/"+tx.ID+"/attachments", "nota.png", testPNG(t)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+tx.ID+"/attachments/a1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
