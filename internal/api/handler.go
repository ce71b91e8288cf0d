// Package api exposes the statement converter over HTTP.
package api

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mwrona-dev/wyciag/internal/extractor"
	"github.com/mwrona-dev/wyciag/internal/models"
	"github.com/mwrona-dev/wyciag/internal/parser"
	"github.com/mwrona-dev/wyciag/internal/scan"
	"github.com/mwrona-dev/wyciag/internal/writer"
)

const apiVersion = "1.0.0"

// pageBreak separates pages in the pre-extracted text form field, for clients
// that run PDF text extraction themselves (e.g. pdf.js in the browser).
const pageBreak = "\n---PAGE_BREAK---\n"

// ConvertResponse is the JSON body of POST /api/convert.
type ConvertResponse struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error,omitempty"`
	Records []models.TransactionRecord `json:"records"`
	Summary *models.Summary            `json:"summary,omitempty"`
	CSV     string                     `json:"csv,omitempty"`
	RawText string                     `json:"rawText,omitempty"`
}

// Register mounts the API routes on app.
func Register(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
}

func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": apiVersion,
	})
}

// HandleConvert accepts one uploaded statement PDF (form field "file"), or
// pre-extracted page text (form field "extractedText"), and returns the
// parsed records, a summary, and the CSV rendition.
func HandleConvert(c *fiber.Ctx) error {
	sourceName := "upload.pdf"
	var pages []string

	if extracted := c.FormValue("extractedText"); extracted != "" {
		for _, page := range strings.Split(extracted, pageBreak) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
	}

	if len(pages) == 0 {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "only PDF files are supported")
		}
		sourceName = fileHeader.Filename

		tmp, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fileHeader, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
		}

		pages, err = extractor.ExtractText(tmpPath)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	walker := parser.NewWalker(nil)
	records, unmatched := walker.Walk(sourceName, pages)

	summary := scan.Summarize(&scan.Result{
		Records:        records,
		UnmatchedLines: unmatched,
		FilesProcessed: 1,
	})

	var csvBuf bytes.Buffer
	exporter := &writer.CSVExporter{}
	if err := exporter.Write(&csvBuf, records); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to JSON null, not [].
	if records == nil {
		records = []models.TransactionRecord{}
	}

	return c.JSON(ConvertResponse{
		Success: true,
		Records: records,
		Summary: &summary,
		CSV:     csvBuf.String(),
		RawText: strings.Join(pages, pageBreak),
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
		Records: []models.TransactionRecord{},
	})
}
