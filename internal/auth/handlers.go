package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/pkg/models"
	"github.com/lexfirm/casedesk-backend/pkg/validation"
)

/* ================================ DTOs ================================= */

// Request body for /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
	// Optional profile fields
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Specialization string `json:"specialization" validate:"omitempty,max=80"`
	BarCouncilID   string `json:"barCouncilId" validate:"omitempty,max=40"`
}

// Request body for /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

// Public profile shape returned by register/login/me
type UserProfileResponse struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	Phone          string      `json:"phone,omitempty"`
	Specialization string      `json:"specialization,omitempty"`
	BarCouncilID   string      `json:"barCouncilId,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func profileOf(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Phone:          u.Phone,
		Specialization: u.Specialization,
		BarCouncilID:   u.BarCouncilID,
		CreatedAt:      u.CreatedAt,
	}
}

/* ============================== Handler ================================= */

type Handler struct {
	db           *gorm.DB
	jwtSecret    string
	secureCookie bool
}

func NewHandler(db *gorm.DB, jwtSecret string, secureCookie bool) *Handler {
	return &Handler{db: db, jwtSecret: jwtSecret, secureCookie: secureCookie}
}

/* ============================== Register ================================ */

// @Summary      Register
// @Description  Register a new user and set the identity cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  RegisterRequest  true  "Register payload"
// @Success      201      {object}  UserProfileResponse
// @Failure      400      {object}  models.ValidationErrorResponse
// @Failure      409      {object}  models.ErrorResponse  "email already exists"
// @Router       /auth/register [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	var in RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}

	// Normalize email
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	role := models.Role(in.Role)
	if role == "" {
		role = models.RoleLawyer
	}

	var taken int64
	if err := h.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if taken > 0 {
		return fiber.NewError(fiber.StatusConflict, "email already exists")
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)

	u := models.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           role,
		Phone:          in.Phone,
		Specialization: in.Specialization,
		BarCouncilID:   in.BarCouncilID,
	}
	if err := h.db.Create(&u).Error; err != nil {
		// Race with a concurrent register on the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "email already exists")
		}
		return fiber.ErrInternalServerError
	}

	token, _ := IssueToken(h.jwtSecret, &u)
	SetAuthCookie(c, token, h.secureCookie)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": profileOf(&u)})
}

/* ================================ Login ================================= */

// @Summary      Login
// @Description  Authenticate and set the identity cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  LoginRequest  true  "Login payload"
// @Success      200      {object}  UserProfileResponse
// @Failure      400      {object}  models.ValidationErrorResponse
// @Failure      401      {object}  models.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var u models.User
	if err := h.db.Where("email = ?", in.Email).First(&u).Error; err != nil {
		return fiber.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return fiber.ErrUnauthorized
	}

	token, _ := IssueToken(h.jwtSecret, &u)
	SetAuthCookie(c, token, h.secureCookie)
	return c.JSON(fiber.Map{"user": profileOf(&u)})
}

/* ================================ Logout ================================ */

// @Summary      Logout
// @Description  Clear the identity cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	ClearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

/* ================================= Me =================================== */

// @Summary      Get current user profile
// @Description  Return full profile of the authenticated user
// @Tags         auth
// @Security     CookieAuth
// @Produce      json
// @Success      200  {object}  UserProfileResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID")
	if userID == nil {
		return fiber.ErrUnauthorized
	}

	var u models.User
	if err := h.db.First(&u, "id = ?", userID).Error; err != nil {
		return fiber.ErrUnauthorized
	}

	return c.JSON(fiber.Map{"user": profileOf(&u)})
}
