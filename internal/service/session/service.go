package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

// UnreadTracker is the part of the order service the session needs.
type UnreadTracker interface {
	UnreadCount(ctx context.Context, patientID string) (int, error)
	MarkSeen(ctx context.Context, patientID string) error
}

type Service struct {
	sessions repository.SessionRepository
	unread   UnreadTracker
}

func NewService(sessions repository.SessionRepository, unread UnreadTracker) *Service {
	return &Service{sessions: sessions, unread: unread}
}

// Get returns the client view of the session.
func (s *Service) Get(ctx context.Context, sessionID string) (*model.SessionView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess)
}

func (s *Service) Navigate(ctx context.Context, sessionID string, view model.View) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, func(m *navigation.Machine) (model.View, error) {
		return m.NavigateTo(view)
	})
}

func (s *Service) Replay(ctx context.Context, sessionID string, view model.View) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, func(m *navigation.Machine) (model.View, error) {
		return m.Replay(view)
	})
}

func (s *Service) Back(ctx context.Context, sessionID string) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, (*navigation.Machine).Back)
}

func (s *Service) Home(ctx context.Context, sessionID string) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, (*navigation.Machine).ResetToHome)
}

// OrderNow opens the order form pre-filled with medicine.
func (s *Service) OrderNow(ctx context.Context, sessionID string, medicine string) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, func(m *navigation.Machine) (model.View, error) {
		return m.OrderNow(medicine)
	})
}

// ShowPrescription makes p the active result of the session.
func (s *Service) ShowPrescription(ctx context.Context, sessionID string, p model.Prescription) (*model.SessionView, error) {
	return s.transition(ctx, sessionID, func(m *navigation.Machine) (model.View, error) {
		return m.ShowPrescription(p)
	})
}

func (s *Service) transition(ctx context.Context, sessionID string, fn func(*navigation.Machine) (model.View, error)) (*model.SessionView, error) {
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		_, err := fn(navigation.New(&sess.Nav, sess.IsAdmin))
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update navigation: %w", err)
	}

	return s.view(ctx, sess)
}

// view reports the session. While a patient has the order view open every
// message on their orders counts as read.
func (s *Service) view(ctx context.Context, sess *model.Session) (*model.SessionView, error) {
	out := &model.SessionView{
		User:     model.UserSummary{Name: sess.Name, UserID: sess.UserID, IsAdmin: sess.IsAdmin},
		View:     navigation.New(&sess.Nav, sess.IsAdmin).Current(),
		NavState: sess.Nav,
	}
	if !sess.IsAdmin && out.View == model.ViewOrder {
		if err := s.unread.MarkSeen(ctx, sess.UserID); err != nil {
			log.Warn().Err(err).Str("user_id", sess.UserID).Msg("failed to reset unread count")
		}
	}
	if !sess.IsAdmin {
		unread, err := s.unread.UnreadCount(ctx, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count unread messages: %w", err)
		}
		out.UnreadCount = unread
	}
	return out, nil
}
