package models

const (
	// CategoryAll is the sentinel category that disables tag filtering.
	CategoryAll = "Tümü"

	// FallbackTag is assigned to items published with no selected tag.
	FallbackTag = "Genel"
)

// StyleGroup is a named, ordered collection of style labels. Group labels are
// unique case-insensitively; style labels are unique within their group.
type StyleGroup struct {
	Label  string   `json:"label"`
	Styles []string `json:"styles"`
}

// HasStyle reports whether the group already contains the exact style label.
func (g *StyleGroup) HasStyle(style string) bool {
	for _, s := range g.Styles {
		if s == style {
			return true
		}
	}
	return false
}

// InitialStyleGroups начальный словарь стилей галереи
func InitialStyleGroups() []StyleGroup {
	return []StyleGroup{
		{
			Label: "Sanatsal Stiller",
			Styles: []string{
				"Gerçekçi", "Sinematik", "Anime", "Mimari", "Karikatür",
				"3D Render", "Vektör", "Suluboya", "Eskiz / Çizim",
				"Yağlı Boya", "Soyut", "Sürreal", "Moda", "Fotoğrafçılık", "Portre",
			},
		},
		{
			Label: "Kurumsal ve Profesyonel",
			Styles: []string{
				"Kurumsal", "İş Dünyası", "Minimalist", "Modern",
				"Ürün / Poster", "Logo", "İnfografik", "Konsept Sanatı",
			},
		},
		{
			Label:  "Tür ve Temalar",
			Styles: []string{"Fantastik", "Bilim Kurgu", "Cyberpunk", "Retro / Vintage", "Grunge"},
		},
		{
			Label:  "Ruh Hali ve Ton",
			Styles: []string{"Canlı / Renkli", "Karanlık / Melankolik", "Zarif"},
		},
	}
}
