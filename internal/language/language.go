package language

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// DefaultCode is returned whenever detection is impossible or unreliable.
const DefaultCode = "en"

// Detector maps message text to an ISO 639-1 language code. Input shorter
// than 3 trimmed characters never reaches the underlying model.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds the lingua model once; construction is the expensive part, so
// the detector is created at startup and shared.
func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

func (d *Detector) Detect(text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 3 {
		return DefaultCode
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return DefaultCode
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

var names = map[string]string{
	"en": "English",
	"ru": "Russian",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"pl": "Polish",
	"uk": "Ukrainian",
	"ar": "Arabic",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"tr": "Turkish",
	"nl": "Dutch",
	"sv": "Swedish",
	"no": "Norwegian",
	"da": "Danish",
	"fi": "Finnish",
	"cs": "Czech",
	"hu": "Hungarian",
	"ro": "Romanian",
	"bg": "Bulgarian",
	"hr": "Croatian",
	"sr": "Serbian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"el": "Greek",
	"he": "Hebrew",
	"th": "Thai",
	"vi": "Vietnamese",
	"id": "Indonesian",
	"ms": "Malay",
	"hi": "Hindi",
}

// Name returns the display name for a language code. Unknown codes pass
// through unchanged.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}
