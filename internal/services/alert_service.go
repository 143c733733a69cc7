package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techdesk_backend/internal/mailer"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/pkg/utils"

	"golang.org/x/time/rate"
)

// DefaultAlertDays is the notification window when ?dias= is absent.
const DefaultAlertDays = 7

const (
	alertErrNoEmail    = "client has no email address"
	alertErrSendFailed = "email could not be sent"
	alertErrMailServer = "mail server unavailable"
)

// AlertService emails clients whose licenses or maintenance are about to expire.
// Nothing is persisted: every call re-sends to every candidate.
type AlertService interface {
	CheckExpirations(ctx context.Context, days int) (*models.AlertSummary, error)
	SendLicenseAlert(ctx context.Context, licenseID string) (*models.ManualAlertResult, error)
}

type alertService struct {
	alertRepo repositories.AlertRepository
	pool      ConnProvider
	mailer    mailer.Mailer
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewAlertService paces sends at ratePerSec; zero or less disables pacing.
func NewAlertService(alertRepo repositories.AlertRepository, pool ConnProvider, m mailer.Mailer, ratePerSec float64) AlertService {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &alertService{
		alertRepo: alertRepo,
		pool:      pool,
		mailer:    m,
		limiter:   rate.NewLimiter(limit, 1),
		now:       time.Now,
	}
}

func composeAlert(item models.AlertItem) mailer.Message {
	var subject, what string
	if item.Kind == models.AlertKindMaintenance {
		subject = fmt.Sprintf("Recordatorio de mantenimiento %s", item.LicenseID)
		what = fmt.Sprintf("el mantenimiento %s", item.LicenseID)
	} else {
		subject = fmt.Sprintf("Aviso de vencimiento de licencia %s", item.LicenseID)
		what = fmt.Sprintf("la licencia %s (%s)", item.LicenseID, strings.ReplaceAll(item.Kind, "_", " "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Estimado(a) %s,\n\n", item.ClientName)
	fmt.Fprintf(&b, "Le recordamos que %s vence el %s", what, item.EndDate.String())
	switch {
	case item.DaysLeft == 0:
		b.WriteString(" (hoy).\n")
	case item.DaysLeft == 1:
		b.WriteString(" (en 1 dia).\n")
	default:
		fmt.Fprintf(&b, " (en %d dias).\n", item.DaysLeft)
	}
	if item.Detail != "" {
		fmt.Fprintf(&b, "Detalle: %s\n", item.Detail)
	}
	b.WriteString("\nComuniquese con nosotros para renovarla.\n\nSaludos cordiales.\n")
	return mailer.Message{To: item.Email, Subject: subject, Body: b.String()}
}

func (s *alertService) today() models.Date {
	return models.NewDate(s.now())
}

// deliver sends one email per item on a single session and records each outcome.
func (s *alertService) deliver(ctx context.Context, items []models.AlertItem) {
	if len(items) == 0 {
		return
	}
	session, err := s.mailer.Open(ctx)
	if err != nil {
		utils.LogError(err, "Failed to open SMTP session", map[string]interface{}{"candidates": len(items)})
		for i := range items {
			items[i].Error = alertErrMailServer
		}
		return
	}
	defer session.Close()

	for i := range items {
		item := &items[i]
		if strings.TrimSpace(item.Email) == "" {
			item.Error = alertErrNoEmail
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			item.Error = alertErrSendFailed
			continue
		}
		if err := session.Send(ctx, composeAlert(*item)); err != nil {
			utils.LogError(err, "Failed to send expiration alert", map[string]interface{}{"id": item.LicenseID, "to": item.Email})
			item.Error = alertErrSendFailed
			continue
		}
		item.Sent = true
	}
}

func (s *alertService) CheckExpirations(ctx context.Context, days int) (*models.AlertSummary, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: dias cannot be negative", ErrValidation)
	}
	today := s.today()
	until := models.NewDate(today.AddDate(0, 0, days))

	var items []models.AlertItem
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		items, err = s.alertRepo.GetExpiringItems(ctx, exec, today, until)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.AlertItem{}
	}
	for i := range items {
		items[i].DaysLeft = today.DaysUntil(items[i].EndDate)
	}

	s.deliver(ctx, items)

	summary := &models.AlertSummary{Total: len(items), Days: days, Items: items}
	for _, item := range items {
		if item.Sent {
			summary.Sent++
		}
	}
	summary.Failed = summary.Total - summary.Sent
	utils.LogInfo("Expiration alerts processed", map[string]interface{}{
		"dias": days, "total": summary.Total, "sent": summary.Sent, "failed": summary.Failed,
	})
	return summary, nil
}

// SendLicenseAlert emails the owner of one license regardless of its end date.
func (s *alertService) SendLicenseAlert(ctx context.Context, licenseID string) (*models.ManualAlertResult, error) {
	id := strings.ToUpper(strings.TrimSpace(licenseID))
	kind, ok := repositories.LicenseKindForID(id)
	if !ok {
		return nil, ErrLicenseNotFound
	}

	var item *models.AlertItem
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		item, err = s.alertRepo.GetLicenseAlertItem(ctx, exec, kind, id)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrLicenseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !item.EndDate.IsZero() {
		item.DaysLeft = s.today().DaysUntil(item.EndDate)
	}

	items := []models.AlertItem{*item}
	s.deliver(ctx, items)
	return &models.ManualAlertResult{
		LicenseID: items[0].LicenseID,
		Email:     items[0].Email,
		Sent:      items[0].Sent,
		Error:     items[0].Error,
	}, nil
}
