package clients

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/pkg/models"
	"github.com/lexfirm/casedesk-backend/pkg/policy"
	"github.com/lexfirm/casedesk-backend/pkg/validation"
)

// ===== DTOs =====

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"omitempty,email,max=120"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=300"`
	NID     string `json:"nid" validate:"omitempty,max=40"`
}

// UpdateClientRequest carries a partial update; nil fields are left untouched.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	NID     *string `json:"nid"`
}

// ClientListItem is a client plus its derived case count.
type ClientListItem struct {
	models.Client
	TotalCases int64 `json:"totalCases"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// List Clients godoc
// @Summary      List clients
// @Description  Clients of the caller (all for admins), annotated with case counts
// @Tags         clients
// @Security     CookieAuth
// @Produce      json
// @Param        search  query string false "matches name, email, or phone"
// @Success      200  {object}  map[string]any  "clients"
// @Failure      401  {object}  models.ErrorResponse
// @Router       /clients [get]
func (h *Handler) List(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)

	q := policy.ScopeToOwner(h.db.Model(&models.Client{}), caller)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var list []models.Client
	if err := q.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	// One grouped query for the case counts instead of a count per client.
	clientIDs := make([]uuid.UUID, 0, len(list))
	for _, cl := range list {
		clientIDs = append(clientIDs, cl.ID)
	}

	counts := map[uuid.UUID]int64{}
	if len(clientIDs) > 0 {
		var rows []struct {
			ClientID uuid.UUID
			Total    int64
		}
		if err := h.db.Model(&models.Case{}).
			Select("client_id, COUNT(*) AS total").
			Where("client_id IN ?", clientIDs).
			Group("client_id").
			Scan(&rows).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		for _, r := range rows {
			counts[r.ClientID] = r.Total
		}
	}

	items := make([]ClientListItem, 0, len(list))
	for _, cl := range list {
		items = append(items, ClientListItem{Client: cl, TotalCases: counts[cl.ID]})
	}

	return c.JSON(fiber.Map{"clients": items})
}

// Get Client godoc
// @Summary      Client detail
// @Description  Client with owner resolved and case summaries
// @Tags         clients
// @Security     CookieAuth
// @Produce      json
// @Param        id  path string true "client id (uuid)"
// @Success      200  {object}  models.Client
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var cl models.Client
	err := h.db.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Cases", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "client_id", "case_number", "title", "status")
		}).
		First(&cl, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !policy.Can(caller, cl.AssignedLawyerID, policy.ActionRead) {
		return fiber.ErrForbidden
	}

	if cl.Cases == nil {
		cl.Cases = []models.Case{}
	}
	return c.JSON(fiber.Map{"client": cl})
}

// Create Client godoc
// @Summary      Create client
// @Description  New client owned by the caller, with no linked cases yet
// @Tags         clients
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateClientRequest  true  "Client payload"
// @Success      201  {object}  models.Client
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /clients [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)

	var in CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	cl := models.Client{
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		NID:              strings.TrimSpace(in.NID),
		AssignedLawyerID: caller.ID,
	}
	if err := h.db.Create(&cl).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if err := h.db.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		First(&cl, "id = ?", cl.ID).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Client created successfully",
		"client":  cl,
	})
}

// Update Client godoc
// @Summary      Update client
// @Tags         clients
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        id       path string               true "client id (uuid)"
// @Param        payload  body UpdateClientRequest  true "fields to change"
// @Success      200  {object}  models.Client
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var in UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	var existing models.Client
	if err := h.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !policy.Can(caller, existing.AssignedLawyerID, policy.ActionWrite) {
		return fiber.ErrForbidden
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 2 {
			return validation.Respond(c, map[string][]string{"name": {"Must be at least 2 characters"}})
		}
		updates["name"] = name
	}
	if in.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.NID != nil {
		updates["nid"] = strings.TrimSpace(*in.NID)
	}

	if err := h.db.Model(&models.Client{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var updated models.Client
	if err := h.db.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		First(&updated, "id = ?", id).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"message": "Client updated successfully", "client": updated})
}

// Delete Client godoc
// @Summary      Delete client
// @Description  No cascade: case client snapshots are copies, not references
// @Tags         clients
// @Security     CookieAuth
// @Produce      json
// @Param        id  path string true "client id (uuid)"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var cl models.Client
	if err := h.db.First(&cl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !policy.Can(caller, cl.AssignedLawyerID, policy.ActionDelete) {
		return fiber.ErrForbidden
	}

	// Unlink weakly referencing cases, then drop the record. Case client
	// snapshots stay untouched.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Case{}).
			Where("client_id = ?", cl.ID).
			Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cl).Error
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"message": "Client deleted successfully"})
}
