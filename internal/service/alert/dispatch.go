package alert

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/qamqor/screening-bot/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DeliveryFailure records one administrator that could not be reached.
type DeliveryFailure struct {
	AdminID int64
	Err     error
}

// Dispatch stores an unread PHQ9_Q9_HIGH alert and starts notifying the
// administrators in the background. Admins are notified even when storing
// fails; the storage error is returned so the caller can log it.
func (s *Service) Dispatch(ctx context.Context, trigger domain.AlertTrigger) (domain.Alert, error) {
	alert := domain.Alert{
		ID:          s.newID(),
		UserID:      trigger.UserID,
		PatientCode: trigger.PatientCode,
		Category:    domain.AlertCategoryPHQ9Q9High,
		Answer:      trigger.Answer,
		CreatedAt:   s.now(),
	}

	var persistErr error
	saved, err := s.alerts.Create(ctx, &alert)
	if err != nil {
		persistErr = fmt.Errorf("save alert: %w", err)
		s.log.ErrorContext(ctx, "alert not saved, notifying admins anyway",
			slog.String("patient_code", trigger.PatientCode),
			slog.String("error", err.Error()),
		)
	} else {
		alert = *saved
	}

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.Notify(bg, alert)
	}()

	return alert, persistErr
}

// Notify pushes alert to every configured administrator. Each push is
// independent: a failing admin never prevents delivery to the others.
// Failures are logged and returned for inspection.
func (s *Service) Notify(ctx context.Context, alert domain.Alert) []DeliveryFailure {
	var (
		mu       sync.Mutex
		failures []DeliveryFailure
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallel)

	for _, adminID := range s.cfg.AdminIDs {
		g.Go(func() error {
			pushCtx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
			defer cancel()

			if err := s.notifier.NotifyAdmin(pushCtx, adminID, alert); err != nil {
				s.log.WarnContext(ctx, "admin alert delivery failed",
					slog.Int64("admin_id", adminID),
					slog.String("patient_code", alert.PatientCode),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failures = append(failures, DeliveryFailure{AdminID: adminID, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		s.log.WarnContext(ctx, "alert fan-out incomplete",
			slog.String("alert_id", alert.ID.String()),
			slog.Int("failed", len(failures)),
			slog.Int("admins", len(s.cfg.AdminIDs)),
		)
	}
	return failures
}
