package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

type Service struct {
	history  repository.HistoryRepository
	sessions repository.SessionRepository
}

func NewService(history repository.HistoryRepository, sessions repository.SessionRepository) *Service {
	return &Service{history: history, sessions: sessions}
}

// List returns the entries of patientID in insertion order, or every entry
// when patientID is empty.
func (s *Service) List(ctx context.Context, patientID string) ([]model.PrescriptionEntry, error) {
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if patientID == "" {
		return entries, nil
	}
	out := make([]model.PrescriptionEntry, 0, len(entries))
	for _, e := range entries {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, id, owner string) (*model.PrescriptionEntry, error) {
	entry, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != "" && entry.PatientID != owner {
		return nil, repository.ErrNotFound
	}
	return entry, nil
}

// Remove deletes an entry. owner restricts the delete to that patient's
// entries; it is empty for the admin.
func (s *Service) Remove(ctx context.Context, id, owner string) error {
	if _, err := s.get(ctx, id, owner); err != nil {
		return err
	}
	if err := s.history.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// Open makes the entry the active prescription of the session, which leaves
// the history view.
func (s *Service) Open(ctx context.Context, sessionID, id, owner string) (*model.PrescriptionEntry, error) {
	entry, err := s.get(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	_, err = s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		_, err := navigation.New(&sess.Nav, sess.IsAdmin).ShowPrescription(entry.Prescription)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
