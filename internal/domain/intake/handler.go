package intake

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/intake/internal/platform/jsonbody"
)

// Endpoints lists the pipeline routes advertised by the index.
var Endpoints = []string{
	"/api/ocr",
	"/api/extract",
	"/api/normalize",
	"/api/appointment",
}

var entitiesSchema = jsonbody.Object(map[string]any{
	"date_phrase": jsonbody.String(),
	"time_phrase": jsonbody.String(),
	"department":  jsonbody.String(),
})

var (
	ocrSchema = jsonbody.MustCompile("ocr.json", jsonbody.Object(map[string]any{
		"text": jsonbody.String(),
	}))
	extractSchema = jsonbody.MustCompile("extract.json", jsonbody.Object(map[string]any{
		"raw_text": jsonbody.String(),
	}))
	normalizeSchema = jsonbody.MustCompile("normalize.json", jsonbody.Object(map[string]any{
		"entities": entitiesSchema,
	}))
	appointmentSchema = jsonbody.MustCompile("appointment.json", jsonbody.Object(map[string]any{
		"entities": entitiesSchema,
		"normalized": jsonbody.Object(map[string]any{
			"date": jsonbody.String(),
			"time": jsonbody.String(),
			"tz":   jsonbody.String(),
		}),
	}))
)

type ocrRequest struct {
	Text *string `json:"text"`
}

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/ocr", h.OCR)
	api.POST("/extract", h.Extract)
	api.POST("/normalize", h.Normalize)
	api.POST("/appointment", h.Appointment)
}

// Index handles GET /.
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Appointment Scheduler API is running",
		"endpoints": Endpoints,
	})
}

// OCR handles POST /api/ocr. A multipart "image" field is run through OCR;
// otherwise a JSON "text" field is passed through.
func (h *Handler) OCR(c echo.Context) error {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		fh, err := c.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgNoInput})
		}
		if err != nil {
			return bodyError(err)
		}
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer f.Close()

		raw, err := h.svc.AcquireImage(c.Request().Context(), f, fh.Filename)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, raw)
	}

	var req ocrRequest
	if err := ocrSchema.Decode(c.Request().Body, &req); err != nil {
		return bodyError(err)
	}
	if req.Text == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgNoInput})
	}
	return c.JSON(http.StatusOK, h.svc.AcquireText(*req.Text))
}

// Extract handles POST /api/extract.
func (h *Handler) Extract(c echo.Context) error {
	var req ExtractRequest
	if err := extractSchema.Decode(c.Request().Body, &req); err != nil {
		return bodyError(err)
	}
	res, err := h.svc.Extract(req.RawText)
	if err != nil {
		return h.stageError(c, "extract", err)
	}
	return c.JSON(http.StatusOK, res)
}

// Normalize handles POST /api/normalize.
func (h *Handler) Normalize(c echo.Context) error {
	var req NormalizeRequest
	if err := normalizeSchema.Decode(c.Request().Body, &req); err != nil {
		return bodyError(err)
	}
	res, err := h.svc.Normalize(req.Entities)
	if err != nil {
		return h.stageError(c, "normalize", err)
	}
	return c.JSON(http.StatusOK, res)
}

// Appointment handles POST /api/appointment. Assembly has no clarification
// path; only a malformed body fails.
func (h *Handler) Appointment(c echo.Context) error {
	var req AppointmentRequest
	if err := appointmentSchema.Decode(c.Request().Body, &req); err != nil {
		return bodyError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Assemble(req))
}

// stageError renders a clarification outcome as 400 and anything else as
// an internal error.
func (h *Handler) stageError(c echo.Context, stage string, err error) error {
	if msg, ok := IsClarification(err); ok {
		rid, _ := c.Get("request_id").(string)
		h.logger.Info().
			Str("request_id", rid).
			Str("stage", stage).
			Str("reason", msg).
			Msg("needs clarification")
		return c.JSON(http.StatusBadRequest, ClarificationResponse{
			Status:  StatusNeedsClarification,
			Message: msg,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// bodyError keeps status codes raised while reading the body (413 from the
// body limit) and reports everything else as an internal error.
func bodyError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
