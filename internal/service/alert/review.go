package alert

import (
	"context"
	"fmt"

	"github.com/qamqor/screening-bot/internal/domain"
)

// ListUnread returns unread alerts, newest first.
func (s *Service) ListUnread(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.alerts.ListUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unread alerts: %w", err)
	}
	return alerts, nil
}

// MarkAllRead flags every alert as read and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.alerts.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark alerts read: %w", err)
	}
	return n, nil
}

// ReviewUnread lists unread alerts and marks exactly that snapshot as read.
// Alerts raised after the listing stay unread.
func (s *Service) ReviewUnread(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.ListUnread(ctx)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return alerts, nil
	}

	newest := alerts[0].CreatedAt
	for _, a := range alerts[1:] {
		if a.CreatedAt.After(newest) {
			newest = a.CreatedAt
		}
	}
	if _, err := s.alerts.MarkReadUpTo(ctx, newest); err != nil {
		return nil, fmt.Errorf("mark reviewed alerts read: %w", err)
	}
	return alerts, nil
}
