package model

const DefaultThemeID = "blue"

// Theme is a named colour scheme. Themes are fixed; settings only select one.
type Theme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	BgGradient string `json:"bgGradient"`
	CardBg     string `json:"cardBg"`
}

var themes = []Theme{
	{ID: "blue", Name: "MediBlue (ডিফল্ট)", Primary: "#2563eb", Secondary: "#3b82f6", BgGradient: "radial-gradient(circle at top right, #f0f9ff 0%, #e0f2fe 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "emerald", Name: "Emerald Health (সবুজ)", Primary: "#059669", Secondary: "#10b981", BgGradient: "radial-gradient(circle at top right, #ecfdf5 0%, #d1fae5 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.85)"},
	{ID: "rose", Name: "Rose Care (গোলাপী)", Primary: "#e11d48", Secondary: "#f43f5e", BgGradient: "radial-gradient(circle at top right, #fff1f2 0%, #ffe4e6 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "dark", Name: "NightCare (ডার্ক মোড)", Primary: "#3b82f6", Secondary: "#60a5fa", BgGradient: "linear-gradient(135deg, #0f172a 0%, #1e293b 100%)", CardBg: "rgba(30, 41, 59, 0.7)"},
	{ID: "purple", Name: "Royal Purple (বেগুনী)", Primary: "#7c3aed", Secondary: "#8b5cf6", BgGradient: "radial-gradient(circle at top right, #f5f3ff 0%, #ede9fe 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "amber", Name: "Sunny Vital (হলুদ)", Primary: "#d97706", Secondary: "#f59e0b", BgGradient: "radial-gradient(circle at top right, #fffbeb 0%, #fef3c7 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "teal", Name: "Ocean Mist (নীলচে)", Primary: "#0d9488", Secondary: "#14b8a6", BgGradient: "radial-gradient(circle at top right, #f0fdfa 0%, #ccfbf1 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "slate", Name: "Pro Slate (ধূসর)", Primary: "#475569", Secondary: "#64748b", BgGradient: "radial-gradient(circle at top right, #f8fafc 0%, #f1f5f9 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.9)"},
	{ID: "mint", Name: "Mint Fresh (পুদিনা)", Primary: "#0891b2", Secondary: "#06b6d4", BgGradient: "radial-gradient(circle at top right, #ecfeff 0%, #cffafe 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
	{ID: "lavender", Name: "Lavender (ল্যাভেন্ডার)", Primary: "#9333ea", Secondary: "#a855f7", BgGradient: "radial-gradient(circle at top right, #faf5ff 0%, #f3e8ff 20%, #f8fafc 50%)", CardBg: "rgba(255, 255, 255, 0.8)"},
}

// Themes returns a copy of the theme catalogue.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// FindTheme looks a theme up by id.
func FindTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ResolveTheme returns the theme for id, falling back to the first theme.
func ResolveTheme(id string) Theme {
	if t, ok := FindTheme(id); ok {
		return t
	}
	return themes[0]
}
