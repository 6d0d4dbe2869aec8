package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mekanis/internal/catalog"
	"mekanis/internal/database"
	"mekanis/internal/errcode"
	"mekanis/internal/tasks"
)

// statusLines are the Turkish mail bodies per application status.
var statusLines = map[string]string{
	database.ApplicationReviewing: "başvurunuz değerlendirmeye alındı",
	database.ApplicationApproved:  "başvurunuz olumlu sonuçlandı",
	database.ApplicationRejected:  "başvurunuz olumsuz sonuçlandı",
	database.ApplicationPending:   "başvurunuz alındı",
}

// EmailTaskHandler consumes application mail tasks. Mail is best-effort: a
// permanently missing record skips the task instead of retrying forever.
type EmailTaskHandler struct {
	db          *gorm.DB
	mailer      Mailer
	redisClient redis.UniversalClient
	logger      *slog.Logger
}

// NewEmailTaskHandler builds the handler. redisClient may be nil, which
// disables the realtime employer event.
func NewEmailTaskHandler(db *gorm.DB, mailer Mailer, redisClient redis.UniversalClient, logger *slog.Logger) *EmailTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailTaskHandler{db: db, mailer: mailer, redisClient: redisClient, logger: logger}
}

// ProcessTask implements asynq.Handler for both mail task types.
func (h *EmailTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ApplicationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("task_type", t.Type()),
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("application_id", uint64(payload.ApplicationID)),
	)

	app, err := h.loadApplication(ctx, payload.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("application not found, skipping mail task")
			return nil
		}
		log.Error("load application failed", slog.Any("error", err))
		return err
	}

	switch t.Type() {
	case tasks.TypeApplicationStatusEmail:
		return h.sendStatusMail(app, log)
	case tasks.TypeApplicationReceivedEmail:
		return h.sendReceivedMail(ctx, app, log)
	default:
		log.Warn("unknown mail task type")
		return nil
	}
}

func (h *EmailTaskHandler) loadApplication(ctx context.Context, id uint) (*database.Application, error) {
	var app database.Application
	err := h.db.WithContext(ctx).
		Preload("JobListing").
		Preload("JobListing.Company").
		Preload("CandidateProfile").
		Preload("CandidateProfile.User").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// sendStatusMail notifies the candidate (profile email, guest fallback) of a
// status change, naming the job and the owning company.
func (h *EmailTaskHandler) sendStatusMail(app *database.Application, log *slog.Logger) error {
	to := app.ApplicantEmail()
	if to == "" {
		log.Warn("application has no reachable email, skipping")
		return nil
	}

	line, ok := statusLines[app.Status]
	if !ok {
		line = "başvuru durumunuz güncellendi"
	}

	subject := fmt.Sprintf("Başvuru güncellemesi: %s", app.JobListing.Title)
	body := fmt.Sprintf(
		"Merhaba %s,\n\n%s firmasındaki %q ilanına yaptığınız %s.\n\nMekanİş",
		app.ApplicantName(),
		app.JobListing.Company.Name,
		app.JobListing.Title,
		line,
	)

	if err := h.mailer.Send(to, subject, body); err != nil {
		log.Error("send status mail failed", slog.Any("error", err))
		return err
	}
	log.Info("status mail sent", slog.String("status", app.Status))
	return nil
}

// sendReceivedMail tells the employer a new application arrived.
func (h *EmailTaskHandler) sendReceivedMail(ctx context.Context, app *database.Application, log *slog.Logger) error {
	var owner database.User
	err := h.db.WithContext(ctx).
		Joins("JOIN companies ON companies.user_id = users.id").
		Where("companies.id = ?", app.JobListing.CompanyID).
		First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("company owner not found, skipping mail")
			return nil
		}
		return err
	}

	subject := fmt.Sprintf("Yeni başvuru: %s", app.JobListing.Title)
	body := fmt.Sprintf(
		"%q ilanınıza yeni bir başvuru var.\n\nAday: %s\nPozisyon: %s\n\nMekanİş",
		app.JobListing.Title,
		app.ApplicantName(),
		catalog.LabelFor(catalog.PositionTypes, app.JobListing.PositionType),
	)

	if err := h.mailer.Send(owner.Email, subject, body); err != nil {
		log.Error("send received mail failed", slog.Any("error", err))
		return err
	}
	log.Info("received mail sent")

	h.publishReceivedEvent(ctx, app, owner.ID, log)
	return nil
}

// publishReceivedEvent pushes the realtime "new application" event to the
// employer's socket channel. Best-effort, the mail already went out.
func (h *EmailTaskHandler) publishReceivedEvent(ctx context.Context, app *database.Application, ownerID uint, log *slog.Logger) {
	if h.redisClient == nil {
		return
	}
	event := ApplicationNotifyMessage{
		Type:          "application_received",
		ApplicationID: app.ID,
		JobListingID:  app.JobListingID,
		Code:          errcode.OK,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal received event failed", slog.Any("error", err))
		return
	}
	if err := h.redisClient.Publish(ctx, NotifyChannel(ownerID), payload).Err(); err != nil {
		log.Error("publish received event failed", slog.Any("error", err))
	}
}
