package domain

// ColorThemes are the course gradient presets offered by the client.
var ColorThemes = []string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #00e054 0%, #40bcf4 100%)",
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
	"linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
	"linear-gradient(135deg, #ff6b6b 0%, #feca57 100%)",
	"linear-gradient(135deg, #5f27cd 0%, #341f97 100%)",
}

// IconNames are the course icon presets offered by the client.
var IconNames = []string{"Code", "CPU", "Globe", "Palette", "Book", "Graduation", "Sparkles"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func IsColorTheme(v string) bool { return contains(ColorThemes, v) }
func IsIconName(v string) bool   { return contains(IconNames, v) }
