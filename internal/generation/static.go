package generation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

// Static answers every request with fixed results. It backs the "static"
// provider for local runs without an API key and is the generator used by
// tests.
type Static struct {
	mu           sync.Mutex
	Prescription model.Prescription
	Search       model.MedicineSearchResult
	// Err, when set, fails every call with a remote generation error.
	Err error
	// Block, when set, holds calls until it is closed or ctx ends.
	Block chan struct{}

	calls int
}

func NewStatic() *Static {
	return &Static{
		Prescription: model.Prescription{
			Diagnosis: "Viral fever (ভাইরাল জ্বর)",
			Advice:    "প্রচুর পানি পান করুন এবং বিশ্রাম নিন।",
			Medications: []model.PrescribedMedication{{
				Name:        "Napa (নাপা)",
				GenericName: "Paracetamol",
				Dosage:      "1+1+1 (খাবারের পর)",
				Duration:    "৫ দিন",
				Purpose:     "জ্বর ও ব্যথার জন্য",
			}},
		},
		Search: model.MedicineSearchResult{
			GenericName: "Paracetamol",
			SearchType:  "generic",
			Alternatives: []model.MedicineAlternative{
				{Name: "Napa (নাপা)", Company: "Beximco", Price: "1.20 Tk", Strength: "500mg"},
				{Name: "Ace (এইস)", Company: "Square", Price: "1.20 Tk", Strength: "500mg"},
			},
		},
	}
}

var _ Generator = (*Static)(nil)

// Calls reports how many requests reached the generator.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Static) wait(ctx context.Context, kind string) error {
	s.mu.Lock()
	s.calls++
	block, failure := s.Block, s.Err
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return remoteError(kind, ctx.Err())
		}
	}
	if failure != nil {
		return remoteError(kind, failure)
	}
	return nil
}

func (s *Static) GeneratePrescription(ctx context.Context, _ model.PatientProfile, _ model.MedicalCase) (*model.Prescription, error) {
	if err := s.wait(ctx, KindPrescription); err != nil {
		return nil, err
	}
	s.mu.Lock()
	p := s.Prescription
	s.mu.Unlock()
	p.Medications = append([]model.PrescribedMedication(nil), p.Medications...)
	stamp(&p, time.Now())
	return &p, nil
}

func (s *Static) SearchMedicine(ctx context.Context, query string) (*model.MedicineSearchResult, error) {
	if err := s.wait(ctx, KindSearch); err != nil {
		return nil, err
	}
	s.mu.Lock()
	res := s.Search
	s.mu.Unlock()
	if strings.TrimSpace(query) != "" && res.SearchType == "" {
		res.SearchType = "generic"
	}
	res.Alternatives = append([]model.MedicineAlternative{}, res.Alternatives...)
	return &res, nil
}
