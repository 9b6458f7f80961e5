package model

type PrescribedMedication struct {
	Name        string `json:"name"`
	GenericName string `json:"genericName"`
	Dosage      string `json:"dosage"`
	Duration    string `json:"duration"`
	Purpose     string `json:"purpose"`
}

// Prescription is the structured result of a consultation
type Prescription struct {
	Diagnosis   string                 `json:"diagnosis"`
	Advice      string                 `json:"advice"`
	Medications []PrescribedMedication `json:"medications"`
	Date        string                 `json:"date"`
}

// PrescriptionEntry is one item of the stored prescription history
type PrescriptionEntry struct {
	ID           string       `json:"id"`
	PatientID    string       `json:"patientId"`
	Prescription Prescription `json:"prescription"`
	Timestamp    int64        `json:"timestamp"`
}

// HistoryLimit caps the store-wide prescription history.
const HistoryLimit = 5

type MedicineAlternative struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Price    string `json:"price"`
	Strength string `json:"strength"`
}

// MedicineSearchResult lists brands sharing a generic
type MedicineSearchResult struct {
	GenericName  string                `json:"genericName"`
	SearchType   string                `json:"searchType"`
	Alternatives []MedicineAlternative `json:"alternatives"`
}
