package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/pkg/models"
)

// Emitter appends notification records for qualifying case mutations.
// Emission is best-effort: a failed write must never fail the mutation
// that triggered it, so errors are logged and swallowed here.
type Emitter struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewEmitter(db *gorm.DB, log zerolog.Logger) *Emitter {
	return &Emitter{db: db, log: log}
}

// Emit writes one notification for the recipient.
func (e *Emitter) Emit(ctx context.Context, userID uuid.UUID, typ models.NotificationType, title, message string, relatedCaseID *uuid.UUID) {
	n := models.Notification{
		UserID:        userID,
		Type:          typ,
		Title:         title,
		Message:       message,
		RelatedCaseID: relatedCaseID,
	}
	if err := e.db.WithContext(ctx).Create(&n).Error; err != nil {
		e.log.Error().Err(err).
			Str("type", string(typ)).
			Str("user_id", userID.String()).
			Msg("notification emit failed")
	}
}
