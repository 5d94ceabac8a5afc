package users

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/pkg/models"
	"github.com/lexfirm/casedesk-backend/pkg/validation"
)

// ===== DTOs =====

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
	BarCouncilID   *string `json:"barCouncilId"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// Update Profile godoc
// @Summary      Update own profile
// @Tags         users
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  UpdateProfileRequest  true  "fields to change"
// @Success      200  {object}  models.User
// @Failure      409  {object}  models.ErrorResponse  "email already in use"
// @Router       /users/profile [put]
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	var in UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	var u models.User
	if err := h.db.First(&u, "id = ?", userID).Error; err != nil {
		return fiber.ErrUnauthorized
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 2 {
			return validation.Respond(c, map[string][]string{"name": {"Must be at least 2 characters"}})
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			var taken int64
			if err := h.db.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, u.ID).
				Count(&taken).Error; err != nil {
				return fiber.ErrInternalServerError
			}
			if taken > 0 {
				return fiber.NewError(fiber.StatusConflict, "email is already in use")
			}
		}
		updates["email"] = email
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Specialization != nil {
		updates["specialization"] = strings.TrimSpace(*in.Specialization)
	}
	if in.BarCouncilID != nil {
		updates["bar_council_id"] = strings.TrimSpace(*in.BarCouncilID)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&u).Updates(updates).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	if err := h.db.First(&u, "id = ?", userID).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": u})
}

// Change Password godoc
// @Summary      Change own password
// @Tags         users
// @Security     CookieAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  ChangePasswordRequest  true  "current + new password"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  models.ErrorResponse  "current password is incorrect"
// @Router       /users/change-password [put]
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	var in ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var u models.User
	if err := h.db.First(&u, "id = ?", userID).Error; err != nil {
		return fiber.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "current password is incorrect")
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err := h.db.Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
