package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/generation"
	"github.com/jwalitptl/mediconsult-api/internal/intake"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

var (
	ErrBusy         = errors.New("a consultation is already being generated for this session")
	ErrAdminSession = errors.New("the admin session has no patient intake")
)

type Service struct {
	sessions  repository.SessionRepository
	profiles  repository.ProfileRepository
	history   repository.HistoryRepository
	generator generation.Generator

	// Sessions with a submission in flight.
	busy sync.Map
}

func NewService(sessions repository.SessionRepository, profiles repository.ProfileRepository,
	history repository.HistoryRepository, generator generation.Generator) *Service {
	return &Service{
		sessions:  sessions,
		profiles:  profiles,
		history:   history,
		generator: generator,
	}
}

// Busy reports whether sessionID has a submission in flight.
func (s *Service) Busy(sessionID string) bool {
	_, ok := s.busy.Load(sessionID)
	return ok
}

func (s *Service) Draft(ctx context.Context, sessionID string) (*model.IntakeDraft, error) {
	sess, err := s.patientSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	intake.New(&sess.Intake)
	return &sess.Intake, nil
}

func (s *Service) patientSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsAdmin {
		return nil, ErrAdminSession
	}
	return sess, nil
}

// Edit applies fn to the session's wizard and stores the result. The draft
// is left untouched when fn fails.
func (s *Service) Edit(ctx context.Context, sessionID string, fn func(*intake.Wizard) error) (*model.IntakeDraft, error) {
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.IsAdmin {
			return ErrAdminSession
		}
		return fn(intake.New(&sess.Intake))
	})
	if err != nil {
		return nil, err
	}
	return &sess.Intake, nil
}

// UpdateProfile saves the patient profile without submitting a
// consultation and keeps the wizard's copy in step.
func (s *Service) UpdateProfile(ctx context.Context, sessionID string, req *model.UpdateProfileRequest) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	_, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.IsAdmin {
			return ErrAdminSession
		}
		current, err := s.profiles.Get(ctx, sess.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			fresh := model.NewProfile(sess.UserID, sess.Name)
			current, err = &fresh, nil
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = req.Apply(*current)
		if err := s.profiles.Save(ctx, &profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		intake.New(&sess.Intake).SetProfile(profile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile returns the stored profile of the session's patient.
func (s *Service) Profile(ctx context.Context, sessionID string) (*model.PatientProfile, error) {
	sess, err := s.patientSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, sess.UserID)
}

// Submit sends the draft to the generator. On success the prescription
// becomes the session's active result, is appended to the history and the
// wizard starts over. On failure the draft is kept for a retry.
func (s *Service) Submit(ctx context.Context, sessionID string) (*model.PrescriptionEntry, error) {
	if _, loaded := s.busy.LoadOrStore(sessionID, struct{}{}); loaded {
		return nil, ErrBusy
	}
	defer s.busy.Delete(sessionID)

	sess, err := s.patientSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft := sess.Intake
	if err := intake.New(&draft).Ready(); err != nil {
		return nil, err
	}

	profile := draft.Profile
	profile.ID = sess.UserID
	if err := s.profiles.Save(ctx, &profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	mc := draft.Case
	mc.PatientID = sess.UserID
	prescription, err := s.generator.GeneratePrescription(ctx, profile, mc)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("prescription generation failed")
		return nil, err
	}

	entry := &model.PrescriptionEntry{
		PatientID:    sess.UserID,
		Prescription: *prescription,
		Timestamp:    model.NowMillis(),
	}
	if err := s.history.Append(ctx, entry, model.HistoryLimit); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	_, err = s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if _, err := navigation.New(&sess.Nav, sess.IsAdmin).ShowPrescription(*prescription); err != nil {
			return err
		}
		intake.New(&sess.Intake).Reset()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		// Logged out while generating; the entry is already in the history.
		log.Info().Str("session_id", sessionID).Str("entry_id", entry.ID).Msg("session ended before the result was shown")
		return entry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}
	return entry, nil
}
