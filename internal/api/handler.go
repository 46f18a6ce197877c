package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/insightdelivered/phonebill-converter/internal/converter"
	"github.com/insightdelivered/phonebill-converter/internal/extractor"
	"github.com/insightdelivered/phonebill-converter/internal/metrics"
	"github.com/insightdelivered/phonebill-converter/internal/models"
	"github.com/insightdelivered/phonebill-converter/internal/report"
	"github.com/insightdelivered/phonebill-converter/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	ID           string              `json:"id,omitempty"`
	Report       string              `json:"report,omitempty"`
	Header       []string            `json:"header,omitempty"`
	Rows         []report.Row        `json:"rows"`
	CSV          string              `json:"csv,omitempty"`
	Accounts     int                 `json:"accounts"`
	Calls        int                 `json:"calls"`
	SMS          int                 `json:"sms"`
	Groups       int                 `json:"groups"`
	Tokens       int                 `json:"tokens"`
	Unrecognized int                 `json:"unrecognized"`
	Trace        []models.TokenTrace `json:"trace,omitempty"`
	Version      string              `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Converter *converter.Converter
	Metrics   *metrics.Metrics
	// Report is the report type used when a request does not name one.
	Report  string
	Version string
	Logger  *slog.Logger
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))
	}
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	reportType := c.FormValue("report", h.Report)
	if reportType == "" {
		reportType = report.TypeInline
	}
	builder, err := report.New(reportType)
	if err != nil {
		return h.writeError(c, fiber.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return h.writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return h.writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmp, err := os.CreateTemp("", "phonebill-*.pdf")
	if err != nil {
		return h.writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fh, tmpPath); err != nil {
		return h.writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	runID := uuid.NewString()
	trace := c.FormValue("trace") == "true"
	res, err := h.Converter.Document(runID, tmpPath, trace)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), tmpPath, filepath.Base(fh.Filename))
		if errors.Is(err, extractor.ErrUnreadable) {
			return h.writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %s", msg))
		}
		return h.writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %s", msg))
	}
	res.Book.Source = fh.Filename

	table := report.Build(builder, res.Book)
	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{}).Write(&csvBuf, table); err != nil {
		return h.writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	rows := table.Rows
	if rows == nil {
		rows = []report.Row{}
	}
	calls, sms, groups := res.Book.Counts()
	h.logger().Info("document converted", "run", runID, "file", fh.Filename, "rows", len(rows))

	return c.JSON(ConvertResponse{
		Success:      true,
		ID:           runID,
		Report:       builder.Type(),
		Header:       table.Header,
		Rows:         rows,
		CSV:          csvBuf.String(),
		Accounts:     len(res.Book.Numbers),
		Calls:        calls,
		SMS:          sms,
		Groups:       groups,
		Tokens:       res.Tokens,
		Unrecognized: res.Unrecognized,
		Trace:        res.Trace,
		Version:      h.Version,
	})
}

func (h *Handler) writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
		Rows:    []report.Row{},
	})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}
