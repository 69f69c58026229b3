package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

var logoTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif"}

type SettingsHandler struct {
	store *services.Store
	logos *export.LogoLoader
}

func NewSettingsHandler(store *services.Store, logos *export.LogoLoader) *SettingsHandler {
	return &SettingsHandler{store: store, logos: logos}
}

// InvoiceNumberResponse carries a freshly allocated invoice number
type InvoiceNumberResponse struct {
	ID string `json:"id"`
}

// GetSettings godoc
// @Summary Get company settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.CompanySettings
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.store.CompanySettings())
}

// ReplaceSettings godoc
// @Summary Replace company settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body models.CompanySettings true "Settings"
// @Success 200 {object} models.CompanySettings
// @Router /settings [put]
func (h *SettingsHandler) ReplaceSettings(c *fiber.Ctx) error {
	var req models.CompanySettings
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	err := h.store.ReplaceCompanySettings(c.UserContext(), req)
	return writeResult(c, fiber.StatusOK, h.store.CompanySettings(), err)
}

// UpdateSettings godoc
// @Summary Update one company setting
// @Tags Settings
// @Accept json
// @Produce json
// @Param patch body models.FieldPatch true "Field and value"
// @Success 200 {object} models.CompanySettings
// @Failure 400 {object} ErrorResponse
// @Router /settings [patch]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req models.FieldPatch
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	err := h.store.UpdateCompanySettings(c.UserContext(), req.Field, req.Value)
	return writeResult(c, fiber.StatusOK, h.store.CompanySettings(), err)
}

// AllocateInvoiceNumber godoc
// @Summary Reserve the next invoice number
// @Tags Settings
// @Produce json
// @Success 200 {object} InvoiceNumberResponse
// @Router /settings/invoice-number [post]
func (h *SettingsHandler) AllocateInvoiceNumber(c *fiber.Ctx) error {
	id, err := h.store.AllocateInvoiceNumber(c.UserContext())
	return writeResult(c, fiber.StatusOK, InvoiceNumberResponse{ID: id}, err)
}

// UploadLogo godoc
// @Summary Upload the company logo
// @Description Scales the image to fit the invoice header and stores it as a data URL
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Param logo formData file true "Logo image (JPEG, PNG or GIF, up to 5MB)"
// @Success 200 {object} models.CompanySettings
// @Failure 400 {object} ErrorResponse
// @Router /settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return respondError(c, ierr.WithError(err).
			WithHint("No logo file uploaded.").
			Mark(ierr.ErrValidation))
	}
	if fileHeader.Size > export.MaxLogoBytes {
		return respondError(c, ierr.NewErrorf("logo too large: %d bytes", fileHeader.Size).
			WithHint("Logo must be 5MB or smaller.").
			Mark(ierr.ErrValidation))
	}
	if ct := fileHeader.Header.Get(fiber.HeaderContentType); !lo.Contains(logoTypes, ct) {
		return respondError(c, ierr.NewErrorf("unsupported logo type %q", ct).
			WithHint("Logo must be a JPEG, PNG or GIF image.").
			Mark(ierr.ErrUnsupported))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, ierr.WithError(err).Mark(ierr.ErrValidation))
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, ierr.WithError(err).Mark(ierr.ErrValidation))
	}
	png, err := h.logos.Normalize(raw)
	if err != nil {
		return respondError(c, ierr.WithError(err).
			WithHint("The uploaded file is not a readable image.").
			Mark(ierr.ErrValidation))
	}

	err = h.store.UpdateCompanySettings(c.UserContext(), "logo", export.PNGDataURL(png))
	return writeResult(c, fiber.StatusOK, h.store.CompanySettings(), err)
}

// DeleteLogo godoc
// @Summary Remove the company logo
// @Tags Settings
// @Produce json
// @Success 200 {object} models.CompanySettings
// @Router /settings/logo [delete]
func (h *SettingsHandler) DeleteLogo(c *fiber.Ctx) error {
	err := h.store.UpdateCompanySettings(c.UserContext(), "logo", "")
	return writeResult(c, fiber.StatusOK, h.store.CompanySettings(), err)
}
