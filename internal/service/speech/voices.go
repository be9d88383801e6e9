package speech

import "strings"

// Voice is one synthesis voice reported by the client device.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// DefaultLocale is the retry locale when the chosen voice errors.
const DefaultLocale = "en-US"

var localeByLanguage = map[string]string{
	"hi": "hi-IN",
	"en": "en-US",
	"bn": "bn-IN",
	"mr": "mr-IN",
	"ta": "ta-IN",
	"te": "te-IN",
}

// LocaleForLanguage resolves a settings language code to a BCP 47 locale.
// Unknown codes fall back to en-US.
func LocaleForLanguage(code string) string {
	if locale, ok := localeByLanguage[strings.ToLower(strings.TrimSpace(code))]; ok {
		return locale
	}
	return DefaultLocale
}

// SelectVoice picks the best voice for a locale: an exact-locale female
// voice first, then any exact-locale voice, then any female voice, then the
// device default (ok=false).
func SelectVoice(voices []Voice, locale string) (Voice, bool) {
	for _, v := range voices {
		if v.Lang == locale && isFemale(v.Name) {
			return v, true
		}
	}
	for _, v := range voices {
		if v.Lang == locale {
			return v, true
		}
	}
	for _, v := range voices {
		if isFemale(v.Name) {
			return v, true
		}
	}
	return Voice{}, false
}

func isFemale(name string) bool {
	return strings.Contains(strings.ToLower(name), "female")
}
