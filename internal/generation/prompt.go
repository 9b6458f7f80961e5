package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

const (
	prescriptionInstruction = "You are a professional Bangladeshi Doctor. You provide medically accurate prescriptions based on symptoms. Output MUST be only valid JSON following the schema. No markdown, no commentary."
	searchInstruction       = "You are a pharmaceutical expert in Bangladesh. Return accurate JSON only."
)

func join[T any](items []T, format func(T) string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, format(it))
	}
	return strings.Join(parts, ", ")
}

// PrescriptionPrompt renders the consultation request sent to the model.
func PrescriptionPrompt(p model.PatientProfile, mc model.MedicalCase) string {
	var b strings.Builder
	b.WriteString("Generate a professional medical prescription for a patient in Bangladesh.\n")
	b.WriteString("The response MUST be in strictly valid JSON format.\n\n")
	b.WriteString("Patient Info:\n")
	fmt.Fprintf(&b, "- Name: %s, Age: %s, Gender: %s\n", p.Name, p.Age, p.Gender)
	fmt.Fprintf(&b, "- Symptoms: %s\n", join(mc.SelectedSymptoms, func(s model.SymptomEntry) string {
		return fmt.Sprintf("%s (%s)", s.Name, s.Intensity)
	}))
	fmt.Fprintf(&b, "- Custom Symptoms: %s\n", mc.CustomSymptoms)
	v := mc.Vitals
	fmt.Fprintf(&b, "- Vitals: BP: %s, Pulse: %s, Temp: %s, Weight: %s\n", v.BP, v.Pulse, v.Temp, v.Weight)
	fmt.Fprintf(&b, "- Medical History: %s | %s\n", strings.Join(mc.SelectedHistories, ", "), mc.CustomHistory)
	fmt.Fprintf(&b, "- Current Medications: %s\n", join(mc.CurrentMedications, func(m model.CurrentMedication) string {
		return fmt.Sprintf("%s (%s)", m.Name, m.Dosage)
	}))
	if len(mc.Tests) > 0 {
		fmt.Fprintf(&b, "- Test Results: %s\n", join(mc.Tests, func(t model.TestResult) string {
			return fmt.Sprintf("%s: %s", t.Name, t.Result)
		}))
	}
	b.WriteString(`
Instructions:
1. diagnosis: Clear diagnosis in English with Bengali translation.
2. medications:
   - name: Format MUST be "English Name (Bengali Name)", e.g., "Napa (নাপা)".
   - genericName: The chemical name.
   - dosage: Format like "1+0+1" with instruction (e.g. "খাবারের পর").
   - purpose: EXPLAIN in Bengali why this medicine is given (e.g., "জ্বর ও ব্যথার জন্য").
   - duration: How many days (e.g., "৫ দিন").
3. advice: Detailed lifestyle/health tips in Bengali.

Output must be a single JSON object. Do not include any text outside the JSON.
`)
	return b.String()
}

// SearchPrompt renders a medicine lookup for query.
func SearchPrompt(query string) string {
	return fmt.Sprintf(`Search for medicine information in Bangladesh for: %q.

Instructions:
1. If the query is a BRAND name: Identify its generic name, then list at least 5-8 alternative brands.
2. If the query is a GENERIC name: List major brands.
3. Prices in BDT (Tk).
4. Names as "English (Bengali)".
`, query)
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func arrayOf(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

func prescriptionSchema() *genai.Schema {
	medication := object(
		[]string{"name", "genericName", "dosage", "duration", "purpose"},
		map[string]*genai.Schema{
			"name":        str(),
			"genericName": str(),
			"dosage":      str(),
			"duration":    str(),
			"purpose":     str(),
		},
	)
	return object(
		[]string{"diagnosis", "advice", "medications"},
		map[string]*genai.Schema{
			"diagnosis":   str(),
			"advice":      str(),
			"medications": arrayOf(medication),
		},
	)
}

func searchSchema() *genai.Schema {
	alternative := object(
		[]string{"name", "company", "price", "strength"},
		map[string]*genai.Schema{
			"name":     str(),
			"company":  str(),
			"price":    str(),
			"strength": str(),
		},
	)
	return object(
		[]string{"genericName", "searchType", "alternatives"},
		map[string]*genai.Schema{
			"genericName":  str(),
			"searchType":   str(),
			"alternatives": arrayOf(alternative),
		},
	)
}

// CleanJSON strips markdown code fences the model sometimes wraps its
// answer in.
func CleanJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func decode[T any](text string) (*T, error) {
	cleaned := CleanJSON(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}
	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
