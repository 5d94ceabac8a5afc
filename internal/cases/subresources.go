package cases

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/pkg/models"
)

// Notes and documents are appended by any authenticated user, not just
// the case owner, so collaborating paralegals can contribute to cases
// they do not own.

type AddNoteRequest struct {
	Content string `json:"content"`
}

type AddDocumentRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Category string `json:"category"`
}

// Append Note godoc
// @Summary      Add note
// @Description  Appends a note to the case; returns the full notes sequence
// @Tags         cases
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        id       path string          true "case id (uuid)"
// @Param        payload  body AddNoteRequest  true "note content"
// @Success      201  {array}   models.CaseNote
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/notes [post]
func (h *Handler) AddNote(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	caseID := c.Params("id")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var in AddNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return fiber.NewError(fiber.StatusBadRequest, "note content is required")
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	note := models.CaseNote{
		CaseID:      cs.ID,
		Content:     content,
		CreatedByID: caller.ID,
	}
	if err := h.db.Create(&note).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var notes []models.CaseNote
	if err := h.db.
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar")
		}).
		Where("case_id = ?", cs.ID).
		Order("created_at ASC").
		Find(&notes).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Note added successfully",
		"notes":   notes,
	})
}

// Append Document godoc
// @Summary      Add document metadata
// @Description  Bytes live on the external media host; this stores title, url, and storage id
// @Tags         cases
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        id       path string              true "case id (uuid)"
// @Param        payload  body AddDocumentRequest  true "document metadata"
// @Success      201  {array}   models.CaseDocument
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/documents [post]
func (h *Handler) AddDocument(c *fiber.Ctx) error {
	caseID := c.Params("id")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var in AddDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.URL) == "" || strings.TrimSpace(in.PublicID) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title, url, and publicId are required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "Other"
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	doc := models.CaseDocument{
		CaseID:     cs.ID,
		Title:      strings.TrimSpace(in.Title),
		URL:        strings.TrimSpace(in.URL),
		PublicID:   strings.TrimSpace(in.PublicID),
		Category:   category,
		UploadedAt: time.Now(),
	}
	if err := h.db.Create(&doc).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	h.emitter.Emit(c.Context(), cs.AssignedLawyerID, models.NotifyDocumentUpload,
		"New Document Uploaded",
		fmt.Sprintf("Document %q uploaded to case %s", doc.Title, cs.CaseNumber),
		&cs.ID)

	var docs []models.CaseDocument
	if err := h.db.
		Where("case_id = ?", cs.ID).
		Order("uploaded_at ASC").
		Find(&docs).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Document uploaded successfully",
		"documents": docs,
	})
}
