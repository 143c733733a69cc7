package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"techdesk_backend/internal/mailer"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newAlertFixture(t *testing.T, m mailer.Mailer) (*alertService, *mockAlertRepo) {
	pool, _ := newTestPool(t)
	repo := &mockAlertRepo{}
	svc := NewAlertService(repo, pool, m, 0).(*alertService)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }
	return svc, repo
}

func TestCheckExpirationsRecordsEachOutcome(t *testing.T) {
	session := &fakeSession{failTo: map[string]bool{"bounce@example.com": true}}
	svc, repo := newAlertFixture(t, &fakeMailer{session: session})

	repo.On("GetExpiringItems", mock.Anything, mock.Anything, date(t, "2026-03-10"), date(t, "2026-03-17")).Return([]models.AlertItem{
		{LicenseID: "A-001", Kind: "antivirus", ClientName: "Ana Perez", Email: "ana@example.com", EndDate: date(t, "2026-03-15")},
		{LicenseID: "M-002", Kind: "ofimatica", ClientName: "Luis Mora", Email: "bounce@example.com", EndDate: date(t, "2026-03-10")},
		{LicenseID: "MP004", Kind: models.AlertKindMaintenance, ClientName: "Sin Correo", Email: "", EndDate: date(t, "2026-03-12")},
	}, nil)

	summary, err := svc.CheckExpirations(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 7, summary.Days)

	assert.True(t, summary.Items[0].Sent)
	assert.Equal(t, 5, summary.Items[0].DaysLeft)
	assert.Empty(t, summary.Items[0].Error)
	assert.False(t, summary.Items[1].Sent)
	assert.Equal(t, 0, summary.Items[1].DaysLeft)
	assert.NotEmpty(t, summary.Items[1].Error)
	assert.Equal(t, alertErrNoEmail, summary.Items[2].Error)

	require.Len(t, session.sent, 1)
	assert.Equal(t, "ana@example.com", session.sent[0].To)
	assert.Contains(t, session.sent[0].Subject, "A-001")
	assert.Contains(t, session.sent[0].Body, "2026-03-15")
	assert.True(t, session.closed)
}

func TestCheckExpirationsSessionUnavailable(t *testing.T) {
	m := &fakeMailer{openErr: errors.New("535 authentication failed")}
	svc, repo := newAlertFixture(t, m)

	repo.On("GetExpiringItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]models.AlertItem{
		{LicenseID: "A-001", Email: "ana@example.com", EndDate: date(t, "2026-03-11")},
		{LicenseID: "W-003", Email: "luis@example.com", EndDate: date(t, "2026-03-12")},
	}, nil)

	summary, err := svc.CheckExpirations(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, m.opens)
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 2, summary.Failed)
	for _, item := range summary.Items {
		assert.False(t, item.Sent)
		assert.Equal(t, alertErrMailServer, item.Error)
		assert.False(t, strings.Contains(item.Error, "535"))
	}
}

func TestCheckExpirationsNoCandidates(t *testing.T) {
	m := &fakeMailer{session: &fakeSession{}}
	svc, repo := newAlertFixture(t, m)
	repo.On("GetExpiringItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	summary, err := svc.CheckExpirations(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.NotNil(t, summary.Items)
	assert.Equal(t, 0, m.opens)
}

func TestCheckExpirationsNegativeDays(t *testing.T) {
	svc, repo := newAlertFixture(t, &fakeMailer{})
	_, err := svc.CheckExpirations(context.Background(), -1)
	assert.True(t, errors.Is(err, ErrValidation))
	repo.AssertNotCalled(t, "GetExpiringItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendLicenseAlert(t *testing.T) {
	session := &fakeSession{}
	svc, repo := newAlertFixture(t, &fakeMailer{session: session})

	repo.On("GetLicenseAlertItem", mock.Anything, mock.Anything, models.LicenseOffice, "M-007").Return(&models.AlertItem{
		LicenseID: "M-007", Kind: "ofimatica", ClientName: "Ana Perez", Email: "ana@example.com", EndDate: date(t, "2026-04-09"),
	}, nil)
	repo.On("GetLicenseAlertItem", mock.Anything, mock.Anything, models.LicenseAntivirus, "A-404").Return(nil, repositories.ErrNotFound)

	result, err := svc.SendLicenseAlert(context.Background(), "m-007")
	require.NoError(t, err)
	assert.Equal(t, "M-007", result.LicenseID)
	assert.Equal(t, "ana@example.com", result.Email)
	assert.True(t, result.Sent)
	require.Len(t, session.sent, 1)
	assert.Contains(t, session.sent[0].Body, "30 dias")

	_, err = svc.SendLicenseAlert(context.Background(), "A-404")
	assert.True(t, errors.Is(err, ErrLicenseNotFound))

	_, err = svc.SendLicenseAlert(context.Background(), "X-1")
	assert.True(t, errors.Is(err, ErrLicenseNotFound))
}

func TestComposeAlertMaintenance(t *testing.T) {
	msg := composeAlert(models.AlertItem{
		LicenseID: "MP012", Kind: models.AlertKindMaintenance, ClientName: "Luis",
		Email: "luis@example.com", EndDate: models.NewDate(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)), DaysLeft: 1,
	})
	assert.Equal(t, "luis@example.com", msg.To)
	assert.Contains(t, msg.Subject, "mantenimiento MP012")
	assert.Contains(t, msg.Body, "en 1 dia)")
}
