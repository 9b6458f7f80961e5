package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
)

type fakeModels struct {
	text  string
	err   error
	calls []string
	cfg   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, model)
	f.cfg = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func newGemini(t *testing.T, f *fakeModels) (*Gemini, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	g := NewGemini(f, Config{BreakerFailures: 2, BreakerTimeout: time.Minute}, m, logger.Nop())
	g.now = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }
	return g, m
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}```  ", `{"a":1}`},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestPrescriptionPrompt(t *testing.T) {
	p := model.PatientProfile{Name: "Rahim", Age: "34", Gender: "Male"}
	mc := model.NewMedicalCase("1")
	mc.SelectedSymptoms = []model.SymptomEntry{{Name: "জ্বর", Intensity: model.IntensitySevere}, {Name: "কাশি", Intensity: model.IntensityMild}}
	mc.CurrentMedications = []model.CurrentMedication{{Name: "Seclo", Dosage: "0+0+1"}}
	mc.Vitals.BP = "120/80"

	prompt := PrescriptionPrompt(p, mc)
	assert.Contains(t, prompt, "Name: Rahim, Age: 34, Gender: Male")
	assert.Contains(t, prompt, "Symptoms: জ্বর (Severe), কাশি (Mild)")
	assert.Contains(t, prompt, "BP: 120/80")
	assert.Contains(t, prompt, "Current Medications: Seclo (0+0+1)")
	assert.NotContains(t, prompt, "Test Results")
}

func TestGeneratePrescription(t *testing.T) {
	f := &fakeModels{text: "```json\n{\"diagnosis\":\"Flu\",\"advice\":\"বিশ্রাম\",\"medications\":[{\"name\":\"Napa (নাপা)\",\"genericName\":\"Paracetamol\",\"dosage\":\"1+0+1\",\"duration\":\"৫ দিন\",\"purpose\":\"জ্বর\"}]}\n```"}
	g, m := newGemini(t, f)

	p, err := g.GeneratePrescription(context.Background(), model.PatientProfile{Name: "Rahim", Age: "34"}, model.NewMedicalCase("1"))
	require.NoError(t, err)
	assert.Equal(t, "Flu", p.Diagnosis)
	assert.Equal(t, "09/03/2025", p.Date)
	require.Len(t, p.Medications, 1)
	assert.Equal(t, "Paracetamol", p.Medications[0].GenericName)

	assert.Equal(t, []string{DefaultPrescriptionModel}, f.calls)
	assert.Equal(t, "application/json", f.cfg.ResponseMIMEType)
	assert.Equal(t, []string{"diagnosis", "advice", "medications"}, f.cfg.ResponseSchema.Required)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues(KindPrescription, "success")))
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeModels
	}{
		{"transport", &fakeModels{err: errors.New("connection reset")}},
		{"not json", &fakeModels{text: "I cannot help with that"}},
		{"empty", &fakeModels{text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, m := newGemini(t, tt.f)
			_, err := g.GeneratePrescription(context.Background(), model.PatientProfile{}, model.NewMedicalCase("1"))
			assert.ErrorIs(t, err, ErrRemoteGeneration)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues(KindPrescription, "error")))
		})
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	f := &fakeModels{err: errors.New("unavailable")}
	g, _ := newGemini(t, f)

	for i := 0; i < 3; i++ {
		_, err := g.SearchMedicine(context.Background(), "napa")
		assert.ErrorIs(t, err, ErrRemoteGeneration)
	}
	assert.Len(t, f.calls, 2)
}

func TestSearchMedicine(t *testing.T) {
	f := &fakeModels{text: `{"genericName":"Paracetamol","searchType":"brand","alternatives":[{"name":"Ace (এইস)","company":"Square","price":"1.20","strength":"500mg"}]}`}
	g, _ := newGemini(t, f)

	res, err := g.SearchMedicine(context.Background(), "Napa")
	require.NoError(t, err)
	assert.Equal(t, "brand", res.SearchType)
	assert.Len(t, res.Alternatives, 1)
	assert.Equal(t, []string{DefaultSearchModel}, f.calls)
	assert.True(t, strings.Contains(SearchPrompt("Napa"), `"Napa"`))
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	p, err := s.GeneratePrescription(context.Background(), model.PatientProfile{}, model.NewMedicalCase("1"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.Date)

	s.Err = errors.New("down")
	_, err = s.SearchMedicine(context.Background(), "napa")
	assert.ErrorIs(t, err, ErrRemoteGeneration)
	assert.Equal(t, 2, s.Calls())
}

func TestStaticBlockHonorsContext(t *testing.T) {
	s := NewStatic()
	s.Block = make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.GeneratePrescription(ctx, model.PatientProfile{}, model.NewMedicalCase("1"))
	assert.ErrorIs(t, err, ErrRemoteGeneration)
}
