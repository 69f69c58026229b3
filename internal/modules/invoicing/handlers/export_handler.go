package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// ExportHandler serves history exports and whole-state backups
type ExportHandler struct {
	store     *services.Store
	exports   *export.Service
	backupDir string
}

func NewExportHandler(store *services.Store, exports *export.Service, backupDir string) *ExportHandler {
	return &ExportHandler{store: store, exports: exports, backupDir: backupDir}
}

// BackupFileResponse names the backup file written on the server
type BackupFileResponse struct {
	Path string `json:"path"`
}

// ExportHistory godoc
// @Summary Export invoice history
// @Description One row per invoice as CSV, XLSX or a PDF table
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv (default), xlsx or pdf"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /exports/history [get]
func (h *ExportHandler) ExportHistory(c *fiber.Ctx) error {
	format, ok := export.ParseFormat(c.Query("format", "csv"))
	if !ok {
		return respondError(c, ierr.NewErrorf("unsupported export format %q", c.Query("format")).
			WithHint("Format must be csv, xlsx or pdf.").
			Mark(ierr.ErrUnsupported))
	}

	now := h.store.Now()
	data, contentType, err := h.exports.ExportTable("Invoice History", h.store.HistoryTable(), format, now)
	if err != nil {
		return respondError(c, ierr.WithError(err).
			WithHint("Failed to export invoice history.").
			Mark(ierr.ErrPersistence))
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice_history_%s%s"`,
		now.Format("2006-01-02"), h.exports.GetFileExtension(format)))
	return c.Send(data)
}

// DownloadBackup godoc
// @Summary Download a whole-state backup
// @Tags Backup
// @Produce json
// @Success 200 {object} models.Backup
// @Router /backup [get]
func (h *ExportHandler) DownloadBackup(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, services.BackupFileName(h.store.Now())))
	return c.JSON(h.store.ExportBackup())
}

// ImportBackup godoc
// @Summary Restore a backup
// @Description Overwrites clients, products and settings and upserts every invoice
// @Tags Backup
// @Accept json
// @Produce json
// @Param backup body models.Backup true "Backup document"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /backup [post]
func (h *ExportHandler) ImportBackup(c *fiber.Ctx) error {
	result, err := h.store.ImportBackup(c.UserContext(), c.Body())
	if err != nil {
		if ierr.IsPersistence(err) {
			return c.Status(fiber.StatusMultiStatus).JSON(struct {
				models.ImportResult
				Error string `json:"error"`
			}{result, ierr.UserMessage(err)})
		}
		return respondError(c, err)
	}
	return c.JSON(result)
}

// WriteBackup godoc
// @Summary Write a backup file into the backup folder
// @Tags Backup
// @Produce json
// @Success 201 {object} BackupFileResponse
// @Router /backup/snapshot [post]
func (h *ExportHandler) WriteBackup(c *fiber.Ctx) error {
	path, err := h.store.WriteBackup(h.backupDir)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(BackupFileResponse{Path: path})
}
