package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/pkg/models"
	"github.com/lexfirm/casedesk-backend/pkg/policy"
)

// GroupCount is one bucket of a grouped count aggregation.
type GroupCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// HearingItem is a case summary for the upcoming-hearings widget.
type HearingItem struct {
	ID              uuid.UUID `json:"id"`
	CaseNumber      string    `json:"caseNumber"`
	Title           string    `json:"title"`
	NextHearingDate time.Time `json:"nextHearingDate"`
}

// MonthCount is a (year, month) creation-count bucket.
type MonthCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// scoped starts a case query narrowed to the caller's visibility.
func (h *Handler) scoped(caller policy.Caller) *gorm.DB {
	return policy.ScopeToOwner(h.db.Model(&models.Case{}), caller)
}

// Stats godoc
// @Summary      Dashboard statistics
// @Description  Counts and groupings over the cases visible to the caller
// @Tags         dashboard
// @Security     CookieAuth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  models.ErrorResponse
// @Router       /dashboard/stats [get]
func (h *Handler) Stats(c *fiber.Ctx) error {
	caller := auth.MustCaller(c)

	var totalCases int64
	if err := h.scoped(caller).Count(&totalCases).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	activeStatuses := []models.CaseStatus{models.CaseFiled, models.CaseInProgress, models.CasePending}
	var activeCases int64
	if err := h.scoped(caller).
		Where("status IN ?", activeStatuses).
		Count(&activeCases).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	byStatus, err := h.groupCount(caller, "status", nil)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	byType, err := h.groupCount(caller, "case_type", nil)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	byPriority, err := h.groupCount(caller, "priority", nil)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	outcomeStatuses := []models.CaseStatus{models.CaseWon, models.CaseLost, models.CaseSettled}
	outcomes, err := h.groupCount(caller, "status", func(q *gorm.DB) *gorm.DB {
		return q.Where("status IN ?", outcomeStatuses)
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	now := time.Now()
	nextWeek := now.Add(7 * 24 * time.Hour)
	hearings := make([]HearingItem, 0, 5)
	if err := h.scoped(caller).
		Select("id, case_number, title, next_hearing_date").
		Where("next_hearing_date BETWEEN ? AND ?", now, nextWeek).
		Order("next_hearing_date ASC").
		Limit(5).
		Scan(&hearings).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	sixMonthsAgo := now.AddDate(0, -6, 0)
	trends := make([]MonthCount, 0, 6)
	if err := h.scoped(caller).
		Select("EXTRACT(YEAR FROM created_at)::int AS year, EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count").
		Where("created_at >= ?", sixMonthsAgo).
		Group("year, month").
		Order("year, month").
		Scan(&trends).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{
		"totalCases":       totalCases,
		"activeCases":      activeCases,
		"casesByStatus":    byStatus,
		"casesByType":      byType,
		"casesByPriority":  byPriority,
		"upcomingHearings": hearings,
		"monthlyTrends":    trends,
		"outcomes":         outcomes,
	})
}

// groupCount counts cases grouped by one column, optionally pre-filtered.
func (h *Handler) groupCount(caller policy.Caller, column string, filter func(*gorm.DB) *gorm.DB) ([]GroupCount, error) {
	q := h.scoped(caller)
	if filter != nil {
		q = filter(q)
	}
	rows := make([]GroupCount, 0)
	err := q.
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}
