package notifications

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/pkg/models"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// @Summary      List notifications
// @Description  Newest-first notifications for the authenticated user
// @Tags         notifications
// @Security     CookieAuth
// @Produce      json
// @Param        limit       query int    false "max items (default 20)"
// @Param        unreadOnly  query bool   false "only unread"
// @Success      200  {object}  map[string]any  "notifications, unreadCount"
// @Failure      401  {object}  models.ErrorResponse
// @Router       /notifications [get]
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	unreadOnly := c.Query("unreadOnly") == "true"

	q := h.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var list []models.Notification
	if err := q.
		Preload("RelatedCase", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "case_number", "title")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if list == nil {
		list = []models.Notification{}
	}

	var unread int64
	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"notifications": list, "unreadCount": unread})
}

// @Summary      Mark one notification read
// @Description  Flips the read flag; ownership is folded into the update predicate
// @Tags         notifications
// @Security     CookieAuth
// @Produce      json
// @Param        id  path string true "notification id (uuid)"
// @Success      200  {object}  models.Notification
// @Failure      404  {object}  models.ErrorResponse
// @Router       /notifications/{id}/read [patch]
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	res := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return fiber.ErrInternalServerError
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}

	var n models.Notification
	if err := h.db.First(&n, "id = ?", id).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read", "notification": n})
}

// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     CookieAuth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /notifications/mark-all-read [patch]
func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
