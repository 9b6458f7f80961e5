package model

// BannerSlot names one of the four banner images
type BannerSlot string

const (
	BannerHomeHeader         BannerSlot = "homeHeader"
	BannerHomeFooter         BannerSlot = "homeFooter"
	BannerPrescriptionHeader BannerSlot = "prescriptionHeader"
	BannerPrescriptionFooter BannerSlot = "prescriptionFooter"
)

func (s BannerSlot) Valid() bool {
	switch s {
	case BannerHomeHeader, BannerHomeFooter, BannerPrescriptionHeader, BannerPrescriptionFooter:
		return true
	}
	return false
}

// ListName names one of the admin-editable intake option lists
type ListName string

const (
	ListSymptoms  ListName = "symptoms"
	ListHistories ListName = "histories"
	ListTests     ListName = "tests"
)

func (l ListName) Valid() bool {
	switch l {
	case ListSymptoms, ListHistories, ListTests:
		return true
	}
	return false
}

// Banners holds image data URLs; an empty string means no banner.
type Banners struct {
	HomeHeader         string `json:"homeHeader"`
	HomeFooter         string `json:"homeFooter"`
	PrescriptionHeader string `json:"prescriptionHeader"`
	PrescriptionFooter string `json:"prescriptionFooter"`
}

func (b *Banners) slot(s BannerSlot) *string {
	switch s {
	case BannerHomeHeader:
		return &b.HomeHeader
	case BannerHomeFooter:
		return &b.HomeFooter
	case BannerPrescriptionHeader:
		return &b.PrescriptionHeader
	case BannerPrescriptionFooter:
		return &b.PrescriptionFooter
	}
	return nil
}

// Set stores image in the slot and reports whether the slot exists.
func (b *Banners) Set(s BannerSlot, image string) bool {
	p := b.slot(s)
	if p == nil {
		return false
	}
	*p = image
	return true
}

type DoctorDetails struct {
	Name        string `json:"name"`
	Degree      string `json:"degree"`
	Designation string `json:"designation"`
	Specialty   string `json:"specialty"`
	Workplace   string `json:"workplace"`
}

// AppSettings is the singleton application configuration edited by the admin
type AppSettings struct {
	Symptoms             []string      `json:"symptoms"`
	MedicalHistories     []string      `json:"medicalHistories"`
	AvailableTests       []string      `json:"availableTests"`
	ActiveThemeID        string        `json:"activeThemeId"`
	Banners              Banners       `json:"banners"`
	PrescriptionTitle    string        `json:"prescriptionTitle"`
	PrescriptionSubtitle string        `json:"prescriptionSubtitle"`
	HomeWelcomeTitle     string        `json:"homeWelcomeTitle"`
	HomeWelcomeSubtitle  string        `json:"homeWelcomeSubtitle"`
	HomeFooterText       string        `json:"homeFooterText"`
	WebsiteURL           string        `json:"websiteUrl"`
	DoctorDetails        DoctorDetails `json:"doctorDetails"`
	SignatureImage       string        `json:"signatureImage,omitempty"`
}

// List returns a pointer to the named option list.
func (s *AppSettings) List(name ListName) *[]string {
	switch name {
	case ListSymptoms:
		return &s.Symptoms
	case ListHistories:
		return &s.MedicalHistories
	case ListTests:
		return &s.AvailableTests
	}
	return nil
}

// DefaultSettings returns the settings used until an admin saves their own.
func DefaultSettings() AppSettings {
	return AppSettings{
		ActiveThemeID:        DefaultThemeID,
		PrescriptionTitle:    "MediConsult AI",
		PrescriptionSubtitle: "Digital Health Assistant • Bangladesh",
		HomeWelcomeTitle:     "স্বাগতম!",
		HomeWelcomeSubtitle:  "আপনার সুস্বাস্থ্য আমাদের একমাত্র লক্ষ্য।",
		HomeFooterText:       "সুস্থ থাকুন, সঠিক চিকিৎসায় বিশ্বাস রাখুন।",
		WebsiteURL:           "www.mediconsult.ai",
		DoctorDetails: DoctorDetails{
			Name:        "ডাঃ রিমন মাহমুদ",
			Degree:      "MBBS, BCS (Health)",
			Designation: "মেডিকেল অফিসার",
			Specialty:   "জেনারেল ফিজিশিয়ান",
			Workplace:   "ঢাকা মেডিকেল কলেজ হাসপাতাল",
		},
		Symptoms: []string{
			"জ্বর (Fever)", "কাশি (Cough)", "মাথাব্যথা (Headache)", "পেটে ব্যথা (Stomach Pain)",
			"শ্বাসকষ্ট (Shortness of Breath)", "দূর্বলতা (Weakness)", "বমি বমি ভাব (Nausea)",
			"বুকে ব্যথা (Chest Pain)", "শরীরে ব্যথা (Body Ache)", "গলা ব্যথা (Sore Throat)",
			"সর্দি (Runny Nose)", "খিদে কম লাগা (Loss of Appetite)",
		},
		MedicalHistories: []string{
			"ডায়াবেটিস (Diabetes)", "উচ্চ রক্তচাপ (High Blood Pressure)", "হাঁপানি (Asthma)",
			"কিডনি সমস্যা (Kidney Disease)", "হৃদরোগ (Heart Disease)", "থাইরয়েড সমস্যা (Thyroid)",
			"গ্যাস্ট্রিকের সমস্যা (Gastric/Acidity)", "অ্যালার্জি (Allergy)",
		},
		AvailableTests: []string{
			"রক্ত পরীক্ষা (CBC)", "বুকের এক্স-রে (X-Ray Chest)", "ইসিজি (ECG)",
			"ডায়াবেটিস পরীক্ষা (Blood Sugar)", "প্রস্রাব পরীক্ষা (Urine R/E)",
			"পেটের আল্ট্রাসোনোগ্রাফি (USG of Abdomen)", "কিডনি পরীক্ষা (Serum Creatinine)", "লিভার পরীক্ষা (LFT)",
		},
	}
}

// UpdateBannerRequest sets a banner image
type UpdateBannerRequest struct {
	Image string `json:"image" binding:"required"`
}

// UpdateThemeRequest selects the active theme
type UpdateThemeRequest struct {
	ThemeID string `json:"themeId" binding:"required"`
}

// ListItemRequest adds or removes an option list entry
type ListItemRequest struct {
	Item string `json:"item" binding:"required"`
}

// UpdateBrandingRequest replaces the free-text branding fields. Nil fields are
// left unchanged.
type UpdateBrandingRequest struct {
	PrescriptionTitle    *string `json:"prescriptionTitle"`
	PrescriptionSubtitle *string `json:"prescriptionSubtitle"`
	HomeWelcomeTitle     *string `json:"homeWelcomeTitle"`
	HomeWelcomeSubtitle  *string `json:"homeWelcomeSubtitle"`
	HomeFooterText       *string `json:"homeFooterText"`
	WebsiteURL           *string `json:"websiteUrl"`
	SignatureImage       *string `json:"signatureImage"`
}
