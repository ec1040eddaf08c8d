package config

// CategoryWeights orders command categories in /help.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎵 Music":        39,
	"🛠️ Maintenance": 60,
}
