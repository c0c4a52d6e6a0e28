package modulecontent

// Voice is the text-to-speech voice used for one language's generated
// narration. The table is static configuration loaded at startup; it is
// read-only at runtime.
type Voice struct {
	Lang string
	Name string
}

var defaultVoices = map[string]Voice{
	"en": {Lang: "en", Name: "Joanna"},
	"es": {Lang: "es", Name: "Lucia"},
	"fr": {Lang: "fr", Name: "Celine"},
	"de": {Lang: "de", Name: "Vicki"},
	"pt": {Lang: "pt", Name: "Ines"},
	"hi": {Lang: "hi", Name: "Aditi"},
	"zh": {Lang: "zh", Name: "Zhiyu"},
	"ja": {Lang: "ja", Name: "Mizuki"},
	"ar": {Lang: "ar", Name: "Zeina"},
}

// VoiceFor returns the voice configured for lang, falling back to the
// English voice for unknown languages.
func VoiceFor(lang string) Voice {
	if v, ok := defaultVoices[lang]; ok {
		return v
	}
	return defaultVoices["en"]
}
