package handler

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"stampapi/internal/metrics"
	"stampapi/internal/model"
	"stampapi/internal/service"
	"stampapi/internal/stamp"
)

// hospitalRequest is the wire form of circular stamp parameters.
type hospitalRequest struct {
	HospitalName string `json:"hospital_name"`
	Size         int    `json:"size"`
	FontSize     int    `json:"font_size"`
	Style        string `json:"style"`
	Color        string `json:"color"`
	BorderStyle  string `json:"border_style"`
	IncludeDate  bool   `json:"include_date"`
	IncludeLogo  bool   `json:"include_logo"`
}

// doctorRequest is the wire form of rectangular stamp parameters.
type doctorRequest struct {
	DoctorName   string `json:"doctor_name"`
	Degree       string `json:"degree"`
	Registration string `json:"registration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// stampResponse is the JSON representation of a rendered asset, used when
// the caller asks for format=json instead of raw PNG bytes.
type stampResponse struct {
	Type      model.StampType        `json:"type"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	PNGBase64 string                 `json:"png_base64"`
	Params    model.GenerationParams `json:"params"`
}

func (r hospitalRequest) params() (stamp.HospitalParams, error) {
	style, err := model.ParseStampStyle(r.Style)
	if err != nil {
		return stamp.HospitalParams{}, err
	}
	color, err := model.ParseStampColor(r.Color)
	if err != nil {
		return stamp.HospitalParams{}, err
	}
	border, err := model.ParseBorderStyle(r.BorderStyle)
	if err != nil {
		return stamp.HospitalParams{}, err
	}
	return stamp.HospitalParams{
		Name:        r.HospitalName,
		Size:        r.Size,
		FontSize:    r.FontSize,
		Color:       color,
		Style:       style,
		Border:      border,
		IncludeDate: r.IncludeDate,
		IncludeLogo: r.IncludeLogo,
	}, nil
}

// respondAsset sends the asset as raw PNG, or as JSON when format=json.
func respondAsset(c *fiber.Ctx, asset *model.StampAsset) error {
	if c.Query("format") == "json" {
		b := asset.Image.Bounds()
		return c.JSON(stampResponse{
			Type:      asset.Type,
			Width:     b.Dx(),
			Height:    b.Dy(),
			PNGBase64: base64.StdEncoding.EncodeToString(asset.PNG),
			Params:    asset.Params,
		})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(asset.PNG)
}

// GenerateHospitalStamp renders a circular hospital stamp from a JSON body.
func GenerateHospitalStamp(svc service.StampService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req hospitalRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		p, err := req.params()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", err.Error())
		}

		asset, err := svc.GenerateHospital(c.UserContext(), p)
		if err != nil {
			return serviceError(c, err)
		}
		m.StampGenerated(string(model.StampTypeHospital))
		return respondAsset(c, asset)
	}
}

// HospitalStampPreview renders a circular stamp from query parameters, which
// keeps the endpoint usable directly from an <img> tag.
func HospitalStampPreview(svc service.StampService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := hospitalRequest{
			HospitalName: c.Query("hospital_name", c.Query("name")),
			Size:         c.QueryInt("size"),
			FontSize:     c.QueryInt("font_size"),
			Style:        c.Query("style"),
			Color:        c.Query("color"),
			BorderStyle:  c.Query("border_style"),
			IncludeDate:  c.QueryBool("include_date"),
			IncludeLogo:  c.QueryBool("include_logo"),
		}
		p, err := req.params()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", err.Error())
		}

		asset, err := svc.GenerateHospital(c.UserContext(), p)
		if err != nil {
			return serviceError(c, err)
		}
		m.StampGenerated(string(model.StampTypeHospital))
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(asset.PNG)
	}
}

// GenerateDoctorStamp renders a rectangular doctor stamp from a JSON body.
func GenerateDoctorStamp(svc service.StampService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req doctorRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		asset, err := svc.GenerateDoctor(c.UserContext(), stamp.DoctorParams{
			Name:         req.DoctorName,
			Degree:       req.Degree,
			Registration: req.Registration,
			Width:        req.Width,
			Height:       req.Height,
		})
		if err != nil {
			return serviceError(c, err)
		}
		m.StampGenerated(string(model.StampTypeDoctor))
		return respondAsset(c, asset)
	}
}
