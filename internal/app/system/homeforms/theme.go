// internal/app/system/homeforms/theme.go
package homeforms

// Option is one entry of a select box in the editor.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ThemeColors are the colors of the site palette.
var ThemeColors = []Option{
	{Value: "magenta", Label: "Magenta"},
	{Value: "coral", Label: "Coral"},
	{Value: "rosa", Label: "Rosa"},
	{Value: "oliva", Label: "Oliva"},
	{Value: "laranja", Label: "Laranja"},
	{Value: "vinho", Label: "Vinho"},
	{Value: "vinho-medio", Label: "Vinho Medio"},
	{Value: "roxo-noite", Label: "Roxo Noite"},
	{Value: "roxo-acento", Label: "Roxo Acento"},
}

// Icons is the subset of Lucide icons the site renders.
var Icons = []Option{
	{Value: "luc-award", Label: "Premio"},
	{Value: "luc-megaphone", Label: "Megafone"},
	{Value: "luc-users", Label: "Pessoas"},
	{Value: "luc-heart-handshake", Label: "Apoio"},
	{Value: "luc-graduation-cap", Label: "Educacao"},
	{Value: "luc-scale", Label: "Justica"},
	{Value: "luc-globe", Label: "Globo"},
	{Value: "luc-star", Label: "Estrela"},
	{Value: "luc-building-2", Label: "Predio"},
	{Value: "luc-instagram", Label: "Instagram"},
	{Value: "luc-user-check", Label: "Usuario"},
	{Value: "luc-map-pin", Label: "Localizacao"},
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// IsThemeColor reports whether v is a palette color.
func IsThemeColor(v string) bool { return hasOption(ThemeColors, v) }

// IsIcon reports whether v is a known icon.
func IsIcon(v string) bool { return hasOption(Icons, v) }
