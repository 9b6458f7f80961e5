// Package generation is the boundary to the remote model that writes
// prescriptions and looks up medicine brands.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

// ErrRemoteGeneration wraps every failure of the remote model: transport,
// open breaker, timeout or an unparsable answer.
var ErrRemoteGeneration = errors.New("remote generation failed")

const (
	KindPrescription = "prescription"
	KindSearch       = "search"

	// DateLayout formats the date stamped on prescriptions.
	DateLayout = "02/01/2006"
)

type Generator interface {
	GeneratePrescription(ctx context.Context, profile model.PatientProfile, mc model.MedicalCase) (*model.Prescription, error)
	SearchMedicine(ctx context.Context, query string) (*model.MedicineSearchResult, error)
}

func remoteError(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteGeneration, kind, err)
}

// stamp fills the date of p when the model left it out.
func stamp(p *model.Prescription, now time.Time) {
	if strings.TrimSpace(p.Date) == "" {
		p.Date = now.Format(DateLayout)
	}
	if p.Medications == nil {
		p.Medications = []model.PrescribedMedication{}
	}
}
