package handler

import (
	"encoding/base64"
	"io"

	"github.com/gofiber/fiber/v2"

	"stampapi/internal/metrics"
	"stampapi/internal/model"
	"stampapi/internal/preview"
	"stampapi/internal/service"
)

// addStampRequest places a freshly rendered stamp on a page. X and Y are
// normalized center coordinates; omitting them centers the stamp.
type addStampRequest struct {
	Page   int                    `json:"page"`
	X      *float64               `json:"x"`
	Y      *float64               `json:"y"`
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
	Stamp  model.GenerationParams `json:"stamp"`
}

type positionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type sizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type rotationRequest struct {
	Degrees float64 `json:"degrees"`
}

type opacityRequest struct {
	Opacity float64 `json:"opacity"`
}

type zIndexRequest struct {
	ZIndex int `json:"z_index"`
}

// previewResponse is the JSON form of a rendered preview.
type previewResponse struct {
	preview.Result
	PNGBase64 string `json:"png_base64"`
}

// CreateSession opens a new editing session.
func CreateSession(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.CreateSession(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id": sess.ID,
			"created_at": sess.CreatedAt,
		})
	}
}

// DeleteSession discards a session and all its state.
func DeleteSession(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadDocument attaches a document to the session (multipart field: file).
func UploadDocument(svc service.StamperService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		summary, err := svc.LoadDocument(c.UserContext(), c.Params("id"), data, fh.Filename)
		if err != nil {
			return serviceError(c, err)
		}
		m.DocumentLoaded(string(summary.Type))
		return c.Status(fiber.StatusCreated).JSON(summary)
	}
}

// GetDocument reports the loaded document's summary together with the
// session's stamp counts.
func GetDocument(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Document(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		sum, err := svc.Summary(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"document": doc,
			"stamps":   sum,
		})
	}
}

// AddStamp renders a stamp from the embedded params and places it.
func AddStamp(svc service.StamperService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req addStampRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		x, y := 0.5, 0.5
		if req.X != nil {
			x = *req.X
		}
		if req.Y != nil {
			y = *req.Y
		}

		id, err := svc.AddStamp(c.UserContext(), c.Params("id"), req.Page, req.Stamp, x, y, req.Width, req.Height)
		if err != nil {
			return serviceError(c, err)
		}
		m.StampGenerated(string(req.Stamp.Type))
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"stamp_id": id})
	}
}

// GetStamp returns one placement with its generation params and page.
func GetStamp(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.StampInfo(c.UserContext(), c.Params("id"), c.Params("stampID"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(info)
	}
}

// MoveStamp updates a placement's normalized center position.
func MoveStamp(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req positionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := svc.MoveStamp(c.UserContext(), c.Params("id"), c.Params("stampID"), req.X, req.Y); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ResizeStamp updates a placement's target pixel size.
func ResizeStamp(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req sizeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := svc.ResizeStamp(c.UserContext(), c.Params("id"), c.Params("stampID"), req.Width, req.Height); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RotateStamp sets a placement's rotation in degrees.
func RotateStamp(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req rotationRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := svc.RotateStamp(c.UserContext(), c.Params("id"), c.Params("stampID"), req.Degrees); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetStampOpacity sets a placement's opacity in [0,1].
func SetStampOpacity(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req opacityRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := svc.SetStampOpacity(c.UserContext(), c.Params("id"), c.Params("stampID"), req.Opacity); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetStampZIndex sets a placement's layer order.
func SetStampZIndex(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req zIndexRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := svc.SetStampZIndex(c.UserContext(), c.Params("id"), c.Params("stampID"), req.ZIndex); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveStamp deletes one placement.
func RemoveStamp(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.RemoveStamp(c.UserContext(), c.Params("id"), c.Params("stampID")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// StampSummary reports placement counts for the whole session.
func StampSummary(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Summary(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(sum)
	}
}

// ClearPageStamps removes every placement on one page.
func ClearPageStamps(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := c.ParamsInt("page")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page number")
		}
		n, err := svc.ClearPage(c.UserContext(), c.Params("id"), page)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"removed": n})
	}
}

// ClearAllStamps removes every placement in the session, or only one page's
// placements when the page query parameter is present.
func ClearAllStamps(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			n   int
			err error
		)
		if c.Query("page") != "" {
			page := c.QueryInt("page")
			if page < 1 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page number")
			}
			n, err = svc.ClearPage(c.UserContext(), c.Params("id"), page)
		} else {
			n, err = svc.ClearAll(c.UserContext(), c.Params("id"))
		}
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"removed": n})
	}
}

// PagePreview composites one page and returns PNG bytes, or JSON with the
// per-stamp state when format=json.
func PagePreview(svc service.StamperService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := c.ParamsInt("page")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page number")
		}
		opts := preview.Options{
			Width:          c.QueryInt("width"),
			Height:         c.QueryInt("height"),
			ShowBoundaries: c.QueryBool("boundaries"),
		}

		res, err := svc.RenderPreview(c.UserContext(), c.Params("id"), page, opts)
		if err != nil {
			return serviceError(c, err)
		}
		m.PreviewRendered()

		if c.Query("format") == "json" {
			return c.JSON(previewResponse{
				Result:    *res,
				PNGBase64: base64.StdEncoding.EncodeToString(res.PNG),
			})
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(res.PNG)
	}
}

// ExportStampConfig returns the session's placements as a JSON snapshot.
func ExportStampConfig(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := svc.ExportConfig(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}
}

// ImportStampConfig replaces the session's placements from a snapshot.
func ImportStampConfig(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ImportConfig(c.UserContext(), c.Params("id"), c.Body())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ArchiveSession uploads the session's config snapshot to object storage.
func ArchiveSession(svc service.StamperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.Archive(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	}
}
