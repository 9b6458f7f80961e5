package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
)

const (
	DefaultPrescriptionModel = "gemini-3-pro-preview"
	DefaultSearchModel       = "gemini-3-flash-preview"
	DefaultTimeout           = 90 * time.Second
)

type Config struct {
	APIKey            string
	PrescriptionModel string
	SearchModel       string
	Timeout           time.Duration
	// Consecutive failures before the breaker opens, and how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// ContentGenerator is the part of the genai client the Gemini generator
// calls. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models  ContentGenerator
	config  Config
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewGeminiClient opens a Gemini API client for config.APIKey.
func NewGeminiClient(ctx context.Context, config Config) (*genai.Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// NewGemini builds a generator over models. m may be nil.
func NewGemini(models ContentGenerator, config Config, m *metrics.Metrics, logger zerolog.Logger) *Gemini {
	if config.PrescriptionModel == "" {
		config.PrescriptionModel = DefaultPrescriptionModel
	}
	if config.SearchModel == "" {
		config.SearchModel = DefaultSearchModel
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 3
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 30 * time.Second
	}

	failures := config.BreakerFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &Gemini{
		models:  models,
		config:  config,
		cb:      cb,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

var _ Generator = (*Gemini)(nil)

func (g *Gemini) GeneratePrescription(ctx context.Context, profile model.PatientProfile, mc model.MedicalCase) (*model.Prescription, error) {
	text, err := g.call(ctx, KindPrescription, g.config.PrescriptionModel, prescriptionInstruction, PrescriptionPrompt(profile, mc), prescriptionSchema())
	if err != nil {
		return nil, err
	}
	p, err := decode[model.Prescription](text)
	if err != nil {
		g.observeFailure(KindPrescription, err)
		return nil, remoteError(KindPrescription, err)
	}
	stamp(p, g.now())
	g.observeSuccess(KindPrescription)
	return p, nil
}

func (g *Gemini) SearchMedicine(ctx context.Context, query string) (*model.MedicineSearchResult, error) {
	text, err := g.call(ctx, KindSearch, g.config.SearchModel, searchInstruction, SearchPrompt(query), searchSchema())
	if err != nil {
		return nil, err
	}
	res, err := decode[model.MedicineSearchResult](text)
	if err != nil {
		g.observeFailure(KindSearch, err)
		return nil, remoteError(KindSearch, err)
	}
	if res.Alternatives == nil {
		res.Alternatives = []model.MedicineAlternative{}
	}
	g.observeSuccess(KindSearch)
	return res, nil
}

func (g *Gemini) call(ctx context.Context, kind, modelName, instruction, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	start := time.Now()
	out, err := g.cb.Execute(func() (interface{}, error) {
		resp, err := g.models.GenerateContent(ctx, modelName, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
		})
		if err != nil {
			return nil, err
		}
		return resp.Text(), nil
	})
	if g.metrics != nil {
		g.metrics.GenerationLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		g.observeFailure(kind, err)
		return "", remoteError(kind, err)
	}
	return out.(string), nil
}

func (g *Gemini) observeFailure(kind string, err error) {
	g.logger.Error().Err(err).Str("kind", kind).Msg("generation failed")
	if g.metrics != nil {
		g.metrics.GenerationRequests.WithLabelValues(kind, "error").Inc()
	}
}

func (g *Gemini) observeSuccess(kind string) {
	if g.metrics != nil {
		g.metrics.GenerationRequests.WithLabelValues(kind, "success").Inc()
	}
}
