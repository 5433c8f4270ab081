package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stampapi/internal/model"
	"stampapi/internal/overlay"
	"stampapi/internal/preview"
	"stampapi/internal/service"
	serviceMocks "stampapi/internal/service/mocks"
	"stampapi/internal/session"
	"stampapi/internal/stamp"
)

func testAsset(t model.StampType) *model.StampAsset {
	return &model.StampAsset{
		Type:   t,
		Image:  image.NewNRGBA(image.Rect(0, 0, 10, 10)),
		PNG:    []byte("png-bytes"),
		Params: model.GenerationParams{Type: t},
	}
}

func TestHealthCheck(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	defer sessions.Close()
	sessions.Create()

	app := fiber.New()
	app.Get("/health", HealthCheck(sessions))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["sessions"])
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateHospitalStamp(t *testing.T) {
	mockSvc := new(serviceMocks.MockStampService)
	app := fiber.New()
	app.Post("/stamps/hospital", GenerateHospitalStamp(mockSvc, nil))

	t.Run("success png", func(t *testing.T) {
		mockSvc.On("GenerateHospital", mock.Anything, mock.MatchedBy(func(p stamp.HospitalParams) bool {
			return p.Name == "City Hospital" && p.Color == model.ColorBlue
		})).Return(testAsset(model.StampTypeHospital), nil).Once()

		body, _ := json.Marshal(map[string]any{"hospital_name": "City Hospital"})
		req := httptest.NewRequest(http.MethodPost, "/stamps/hospital", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("success json format", func(t *testing.T) {
		mockSvc.On("GenerateHospital", mock.Anything, mock.Anything).
			Return(testAsset(model.StampTypeHospital), nil).Once()

		body, _ := json.Marshal(map[string]any{"hospital_name": "City Hospital"})
		req := httptest.NewRequest(http.MethodPost, "/stamps/hospital?format=json", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result stampResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.StampTypeHospital, result.Type)
		assert.Equal(t, 10, result.Width)
		assert.NotEmpty(t, result.PNGBase64)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown color", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"hospital_name": "X", "color": "pink"})
		req := httptest.NewRequest(http.MethodPost, "/stamps/hospital", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_PARAMS", res.Error.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		mockSvc.On("GenerateHospital", mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidParams).Once()

		body, _ := json.Marshal(map[string]any{})
		req := httptest.NewRequest(http.MethodPost, "/stamps/hospital", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestHospitalStampPreview(t *testing.T) {
	mockSvc := new(serviceMocks.MockStampService)
	app := fiber.New()
	app.Get("/stamps/hospital/preview", HospitalStampPreview(mockSvc, nil))

	mockSvc.On("GenerateHospital", mock.Anything, mock.MatchedBy(func(p stamp.HospitalParams) bool {
		return p.Name == "General" && p.Size == 400
	})).Return(testAsset(model.StampTypeHospital), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/stamps/hospital/preview?name=General&size=400", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	mockSvc.AssertExpectations(t)
}

func TestGenerateDoctorStamp(t *testing.T) {
	mockSvc := new(serviceMocks.MockStampService)
	app := fiber.New()
	app.Post("/stamps/doctor", GenerateDoctorStamp(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("GenerateDoctor", mock.Anything, stamp.DoctorParams{
			Name: "Dr. A. Rahman", Degree: "MBBS", Registration: "12345",
		}).Return(testAsset(model.StampTypeDoctor), nil).Once()

		body, _ := json.Marshal(map[string]any{
			"doctor_name": "Dr. A. Rahman", "degree": "MBBS", "registration": "12345",
		})
		req := httptest.NewRequest(http.MethodPost, "/stamps/doctor", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc.On("GenerateDoctor", mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidParams).Once()

		body, _ := json.Marshal(map[string]any{"doctor_name": "Dr. X"})
		req := httptest.NewRequest(http.MethodPost, "/stamps/doctor", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Post("/sessions/:id/document", UploadDocument(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "scan.png")
		part.Write([]byte("fake-image"))
		writer.Close()

		summary := &model.DocumentSummary{Type: model.DocumentTypeImage, PageCount: 1, Filename: "scan.png"}
		mockSvc.On("LoadDocument", mock.Anything, "sess-1", []byte("fake-image"), "scan.png").
			Return(summary, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/sess-1/document", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.DocumentSummary
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 1, result.PageCount)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/sess-1/document", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "scan.png")
		part.Write([]byte("x"))
		writer.Close()

		mockSvc.On("LoadDocument", mock.Anything, "missing", mock.Anything, "scan.png").
			Return(nil, service.ErrSessionNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/missing/document", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "SESSION_NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Get("/sessions/:id/document", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		summary := &model.DocumentSummary{Type: model.DocumentTypePDF, PageCount: 3, Filename: "report.pdf"}
		mockSvc.On("Document", mock.Anything, "s").Return(summary, nil).Once()
		mockSvc.On("Summary", mock.Anything, "s").Return(overlay.Summary{Total: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/document", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Document model.DocumentSummary `json:"document"`
			Stamps   overlay.Summary       `json:"stamps"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 3, body.Document.PageCount)
		assert.Equal(t, 2, body.Stamps.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no document", func(t *testing.T) {
		mockSvc.On("Document", mock.Anything, "s").Return(nil, service.ErrNoDocument).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/document", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestClearStamps(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Delete("/sessions/:id/stamps", ClearAllStamps(mockSvc))

	t.Run("all", func(t *testing.T) {
		mockSvc.On("ClearAll", mock.Anything, "s").Return(4, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/sessions/s/stamps", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]int
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 4, body["removed"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("single page", func(t *testing.T) {
		mockSvc.On("ClearPage", mock.Anything, "s", 2).Return(1, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/sessions/s/stamps?page=2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/sessions/s/stamps?page=zero", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAddStamp(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Post("/sessions/:id/stamps", AddStamp(mockSvc, nil))

	t.Run("success defaults to center", func(t *testing.T) {
		mockSvc.On("AddStamp", mock.Anything, "sess-1", 1,
			mock.MatchedBy(func(gp model.GenerationParams) bool { return gp.Type == model.StampTypeHospital }),
			0.5, 0.5, 0, 0).Return("stamp-1", nil).Once()

		body, _ := json.Marshal(map[string]any{
			"page":  1,
			"stamp": map[string]any{"type": "hospital", "hospital_name": "City"},
		})
		req := httptest.NewRequest(http.MethodPost, "/sessions/sess-1/stamps", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "stamp-1", result["stamp_id"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no document", func(t *testing.T) {
		mockSvc.On("AddStamp", mock.Anything, "sess-1", 1, mock.Anything, 0.2, 0.3, 0, 0).
			Return("", service.ErrNoDocument).Once()

		body, _ := json.Marshal(map[string]any{
			"page": 1, "x": 0.2, "y": 0.3,
			"stamp": map[string]any{"type": "hospital", "hospital_name": "City"},
		})
		req := httptest.NewRequest(http.MethodPost, "/sessions/sess-1/stamps", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_DOCUMENT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestStampMutations(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Put("/sessions/:id/stamps/:stampID/position", MoveStamp(mockSvc))
	app.Put("/sessions/:id/stamps/:stampID/rotation", RotateStamp(mockSvc))
	app.Delete("/sessions/:id/stamps/:stampID", RemoveStamp(mockSvc))

	t.Run("move", func(t *testing.T) {
		mockSvc.On("MoveStamp", mock.Anything, "s", "st", 0.1, 0.9).Return(nil).Once()

		body, _ := json.Marshal(map[string]any{"x": 0.1, "y": 0.9})
		req := httptest.NewRequest(http.MethodPut, "/sessions/s/stamps/st/position", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("rotate unknown stamp", func(t *testing.T) {
		mockSvc.On("RotateStamp", mock.Anything, "s", "nope", 45.0).
			Return(service.ErrStampNotFound).Once()

		body, _ := json.Marshal(map[string]any{"degrees": 45.0})
		req := httptest.NewRequest(http.MethodPut, "/sessions/s/stamps/nope/rotation", bytes.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "STAMP_NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("remove", func(t *testing.T) {
		mockSvc.On("RemoveStamp", mock.Anything, "s", "st").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/sessions/s/stamps/st", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestPagePreview(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Get("/sessions/:id/pages/:page/preview", PagePreview(mockSvc, nil))

	t.Run("png", func(t *testing.T) {
		res := &preview.Result{PageNumber: 2, Width: 100, Height: 140, ScaleFactor: 0.5, PNG: []byte("png")}
		mockSvc.On("RenderPreview", mock.Anything, "s", 2, preview.Options{Width: 100}).
			Return(res, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/pages/2/preview?width=100", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("json format", func(t *testing.T) {
		res := &preview.Result{PageNumber: 1, Width: 50, Height: 70, ScaleFactor: 1, PNG: []byte("png")}
		mockSvc.On("RenderPreview", mock.Anything, "s", 1, preview.Options{ShowBoundaries: true}).
			Return(res, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/pages/1/preview?boundaries=true&format=json", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result previewResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 1, result.PageNumber)
		assert.NotEmpty(t, result.PNGBase64)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no document", func(t *testing.T) {
		mockSvc.On("RenderPreview", mock.Anything, "s", 1, preview.Options{}).
			Return(nil, service.ErrNoDocument).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/pages/1/preview", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestStampConfig(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Get("/sessions/:id/config", ExportStampConfig(mockSvc))
	app.Put("/sessions/:id/config", ImportStampConfig(mockSvc))

	t.Run("export", func(t *testing.T) {
		mockSvc.On("ExportConfig", mock.Anything, "s").
			Return([]byte(`{"version":"1.0"}`), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/sessions/s/config", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "1.0", body["version"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("import", func(t *testing.T) {
		mockSvc.On("ImportConfig", mock.Anything, "s", mock.Anything).
			Return(&service.ImportResult{Stamps: 3, Regenerated: 3}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/sessions/s/config", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.ImportResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 3, result.Stamps)
		mockSvc.AssertExpectations(t)
	})

	t.Run("import malformed", func(t *testing.T) {
		mockSvc.On("ImportConfig", mock.Anything, "s", mock.Anything).
			Return(nil, service.ErrBadConfig).Once()

		req := httptest.NewRequest(http.MethodPut, "/sessions/s/config", bytes.NewReader([]byte(`not json`)))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_CONFIG", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestArchiveSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Post("/sessions/:id/archive", ArchiveSession(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Archive", mock.Anything, "s").
			Return("https://minio.local/configs/s/abc.json", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/s/archive", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Contains(t, result["url"], "configs/s")
		mockSvc.AssertExpectations(t)
	})

	t.Run("disabled", func(t *testing.T) {
		mockSvc.On("Archive", mock.Anything, "s").
			Return("", service.ErrArchiveDisabled).Once()

		req := httptest.NewRequest(http.MethodPost, "/sessions/s/archive", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ARCHIVE_DISABLED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestServiceErrorFallback(t *testing.T) {
	mockSvc := new(serviceMocks.MockStamperService)
	app := fiber.New()
	app.Delete("/sessions/:id", DeleteSession(mockSvc))

	mockSvc.On("DeleteSession", mock.Anything, "s").Return(errors.New("boom")).Once()

	req := httptest.NewRequest(http.MethodDelete, "/sessions/s", nil)
	resp, _ := app.Test(req)

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var res errorPayload
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	sessions := session.NewMemoryStore(time.Minute)
	defer sessions.Close()
	stampSvc := new(serviceMocks.MockStampService)
	stamperSvc := new(serviceMocks.MockStamperService)
	RegisterRoutes(app, sessions, stampSvc, stamperSvc, nil)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		// Fiber returns 405 by default if route exists but method doesn't match
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
