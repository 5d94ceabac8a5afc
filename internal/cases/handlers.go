package cases

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/internal/notifications"
	"github.com/lexfirm/casedesk-backend/pkg/models"
	"github.com/lexfirm/casedesk-backend/pkg/policy"
	"github.com/lexfirm/casedesk-backend/pkg/validation"
)

// ===== DTOs =====

type ClientInfoRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"omitempty,email,max=120"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

type CreateCaseRequest struct {
	CaseNumber      string            `json:"caseNumber" validate:"required,max=60"`
	Title           string            `json:"title" validate:"required,min=3,max=200"`
	CaseType        string            `json:"caseType" validate:"required,casetype"`
	Status          string            `json:"status" validate:"omitempty,casestatus"`
	Priority        string            `json:"priority" validate:"omitempty,priority"`
	Client          ClientInfoRequest `json:"client"`
	Opponent        string            `json:"opponent" validate:"omitempty,max=200"`
	Court           string            `json:"court" validate:"omitempty,max=200"`
	FilingDate      string            `json:"filingDate" validate:"required"`
	NextHearingDate string            `json:"nextHearingDate" validate:"omitempty"`
	Description     string            `json:"description" validate:"omitempty,max=5000"`
	ClientID        string            `json:"clientId" validate:"omitempty,uuid"`
}

// UpdateCaseRequest carries a partial update; nil fields are left untouched.
// Present fields must still be valid: an empty string never erases a
// required column or fakes a status transition.
type UpdateCaseRequest struct {
	CaseNumber      *string            `json:"caseNumber" validate:"omitempty,max=60"`
	Title           *string            `json:"title" validate:"omitempty,min=3,max=200"`
	CaseType        *string            `json:"caseType" validate:"omitempty,casetype"`
	Status          *string            `json:"status" validate:"omitempty,casestatus"`
	Priority        *string            `json:"priority" validate:"omitempty,priority"`
	Client          *ClientInfoRequest `json:"client"`
	Opponent        *string            `json:"opponent"`
	Court           *string            `json:"court"`
	FilingDate      *string            `json:"filingDate"`
	NextHearingDate *string            `json:"nextHearingDate"`
	Description     *string            `json:"description"`
}

type Handler struct {
	db      *gorm.DB
	emitter *notifications.Emitter
}

func NewHandler(db *gorm.DB, emitter *notifications.Emitter) *Handler {
	return &Handler{db: db, emitter: emitter}
}

func parsePage(c *fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	size, _ = strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 50 {
		size = 10
	}
	return
}

// parseDate accepts RFC3339 or a plain YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// sortColumns whitelists sortBy values against their columns.
var sortColumns = map[string]string{
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"caseNumber":      "case_number",
	"title":           "title",
	"status":          "status",
	"priority":        "priority",
	"filingDate":      "filing_date",
	"nextHearingDate": "next_hearing_date",
}

// List Cases godoc
// @Summary      List cases
// @Description  Filtered, paginated cases; non-admins only see their own
// @Tags         cases
// @Security     CookieAuth
// @Produce      json
// @Param        page       query int    false "page (1-indexed)"
// @Param        limit      query int    false "page size (default 10)"
// @Param        search     query string false "matches caseNumber, title, or client name"
// @Param        status     query string false "exact status"
// @Param        caseType   query string false "exact case type"
// @Param        priority   query string false "exact priority"
// @Param        sortBy     query string false "createdAt (default), title, status, ..."
// @Param        sortOrder  query string false "asc | desc (default)"
// @Success      200  {object}  map[string]any  "cases, pagination"
// @Failure      401  {object}  models.ErrorResponse
// @Router       /cases [get]
func (h *Handler) List(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	page, size := parsePage(c)

	q := policy.ScopeToOwner(h.db.Model(&models.Case{}), caller)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("case_number ILIKE ? OR title ILIKE ? OR client_name ILIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if caseType := c.Query("caseType"); caseType != "" {
		q = q.Where("case_type = ?", caseType)
	}
	if priority := c.Query("priority"); priority != "" {
		q = q.Where("priority = ?", priority)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	col, ok := sortColumns[c.Query("sortBy", "createdAt")]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if c.Query("sortOrder") == "asc" {
		dir = "ASC"
	}

	var list []models.Case
	if err := q.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "avatar")
		}).
		Order(col + " " + dir).
		Offset((page - 1) * size).Limit(size).
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if list == nil {
		list = []models.Case{}
	}

	return c.JSON(fiber.Map{
		"cases": list,
		"pagination": fiber.Map{
			"page": page, "limit": size, "total": total,
			"pages": int(math.Ceil(float64(total) / float64(size))),
		},
	})
}

// Get Case godoc
// @Summary      Case detail
// @Description  Full case with owner, documents, notes (authors resolved), timeline
// @Tags         cases
// @Security     CookieAuth
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {object}  models.Case
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var cs models.Case
	err := h.db.
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "avatar", "specialization")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Notes.CreatedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar")
		}).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&cs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !policy.Can(caller, cs.AssignedLawyerID, policy.ActionRead) {
		return fiber.ErrForbidden
	}

	normalize(&cs)
	return c.JSON(fiber.Map{"case": cs})
}

// Create Case godoc
// @Summary      Create case
// @Description  Files a new case owned by the caller; seeds the timeline and notifies
// @Tags         cases
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateCaseRequest  true  "Case payload"
// @Success      201  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      409  {object}  models.ErrorResponse  "case number already exists"
// @Router       /cases [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)

	var in CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	filingDate, err := parseDate(in.FilingDate)
	if err != nil {
		return validation.Respond(c, map[string][]string{"filingDate": {"Invalid date format"}})
	}
	var nextHearing *time.Time
	if in.NextHearingDate != "" {
		t, err := parseDate(in.NextHearingDate)
		if err != nil {
			return validation.Respond(c, map[string][]string{"nextHearingDate": {"Invalid date format"}})
		}
		nextHearing = &t
	}

	caseNumber := strings.TrimSpace(in.CaseNumber)

	// Uniqueness of the human-readable case number
	var dup int64
	if err := h.db.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&dup).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if dup > 0 {
		return fiber.NewError(fiber.StatusConflict, "case number already exists")
	}

	status := models.CaseStatus(in.Status)
	if status == "" {
		status = models.CaseFiled
	}
	priority := models.Priority(in.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	cs := models.Case{
		CaseNumber: caseNumber,
		Title:      strings.TrimSpace(in.Title),
		CaseType:   models.CaseType(in.CaseType),
		Status:     status,
		Priority:   priority,
		Client: models.ClientInfo{
			Name:    strings.TrimSpace(in.Client.Name),
			Email:   strings.ToLower(strings.TrimSpace(in.Client.Email)),
			Phone:   strings.TrimSpace(in.Client.Phone),
			Address: strings.TrimSpace(in.Client.Address),
		},
		AssignedLawyerID: caller.ID,
		Opponent:         strings.TrimSpace(in.Opponent),
		Court:            strings.TrimSpace(in.Court),
		FilingDate:       filingDate,
		NextHearingDate:  nextHearing,
		Description:      strings.TrimSpace(in.Description),
	}
	if in.ClientID != "" {
		clientID, _ := uuid.Parse(in.ClientID)
		cs.ClientID = &clientID
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cs).Error; err != nil {
			return err
		}
		return tx.Create(&models.TimelineEvent{
			CaseID:      cs.ID,
			Event:       "Case Filed",
			Date:        filingDate,
			Description: "Case has been filed",
		}).Error
	})
	if err != nil {
		// Race with a concurrent create on the same case number
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "case number already exists")
		}
		return fiber.ErrInternalServerError
	}

	h.emitter.Emit(c.Context(), caller.ID, models.NotifyCaseAssigned,
		"New Case Created",
		fmt.Sprintf("Case %s has been created", cs.CaseNumber),
		&cs.ID)

	created, err := h.loadCase(c.Context(), cs.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"case": created})
}

// Update Case godoc
// @Summary      Update case
// @Description  Partial update; a status change appends a timeline entry and notifies
// @Tags         cases
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        id       path string             true "case id (uuid)"
// @Param        payload  body UpdateCaseRequest  true "fields to change"
// @Success      200  {object}  models.Case
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var in UpdateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var existing models.Case
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
	if in.CaseNumber != nil {
		caseNumber := strings.TrimSpace(*in.CaseNumber)
		if caseNumber == "" {
			return validation.Respond(c, map[string][]string{"caseNumber": {"This field is required"}})
		}
		if caseNumber != existing.CaseNumber {
			var dup int64
			if err := h.db.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&dup).Error; err != nil {
				return fiber.ErrInternalServerError
			}
			if dup > 0 {
				return fiber.NewError(fiber.StatusConflict, "case number already exists")
			}
		}
		updates["case_number"] = caseNumber
	}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.CaseType != nil {
		updates["case_type"] = *in.CaseType
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.Opponent != nil {
		updates["opponent"] = strings.TrimSpace(*in.Opponent)
	}
	if in.Court != nil {
		updates["court"] = strings.TrimSpace(*in.Court)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Client != nil {
		updates["client_name"] = strings.TrimSpace(in.Client.Name)
		updates["client_email"] = strings.ToLower(strings.TrimSpace(in.Client.Email))
		updates["client_phone"] = strings.TrimSpace(in.Client.Phone)
		updates["client_address"] = strings.TrimSpace(in.Client.Address)
	}
	if in.FilingDate != nil {
		t, err := parseDate(*in.FilingDate)
		if err != nil {
			return validation.Respond(c, map[string][]string{"filingDate": {"Invalid date format"}})
		}
		updates["filing_date"] = t
	}
	if in.NextHearingDate != nil {
		if *in.NextHearingDate == "" {
			updates["next_hearing_date"] = nil
		} else {
			t, err := parseDate(*in.NextHearingDate)
			if err != nil {
				return validation.Respond(c, map[string][]string{"nextHearingDate": {"Invalid date format"}})
			}
			updates["next_hearing_date"] = t
		}
	}

	statusChanged := in.Status != nil && models.CaseStatus(*in.Status) != existing.Status
	if in.Status != nil {
		updates["status"] = *in.Status
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Case{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if statusChanged {
			return tx.Create(&models.TimelineEvent{
				CaseID:      existing.ID,
				Event:       fmt.Sprintf("Status changed to %s", *in.Status),
				Date:        time.Now(),
				Description: fmt.Sprintf("Case status updated from %s to %s", existing.Status, *in.Status),
			}).Error
		}
		return nil
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if statusChanged {
		h.emitter.Emit(c.Context(), caller.ID, models.NotifyCaseUpdate,
			"Case Status Updated",
			fmt.Sprintf("Case %s status changed to %s", existing.CaseNumber, *in.Status),
			&existing.ID)
	}

	updated, err := h.loadCase(c.Context(), existing.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Case updated successfully", "case": updated})
}

// Delete Case godoc
// @Summary      Delete case
// @Description  Removes the case, its sub-resources, and notifications referencing it
// @Tags         cases
// @Security     CookieAuth
// @Produce      json
// @Param        id  path string true "case id (uuid)"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !policy.Can(caller, cs.AssignedLawyerID, policy.ActionDelete) {
		return fiber.ErrForbidden
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{
			&models.CaseDocument{}, &models.CaseNote{}, &models.TimelineEvent{},
		} {
			if err := tx.Where("case_id = ?", cs.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("related_case_id = ?", cs.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cs).Error
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"message": "Case deleted successfully"})
}

// loadCase fetches a case with its owner and sub-resources resolved.
func (h *Handler) loadCase(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	var cs models.Case
	err := h.db.WithContext(ctx).
		Preload("AssignedLawyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&cs, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	normalize(&cs)
	return &cs, nil
}

// normalize keeps empty sequences as [] in JSON, never null.
func normalize(cs *models.Case) {
	if cs.Documents == nil {
		cs.Documents = []models.CaseDocument{}
	}
	if cs.Notes == nil {
		cs.Notes = []models.CaseNote{}
	}
	if cs.Timeline == nil {
		cs.Timeline = []models.TimelineEvent{}
	}
}
