package speech

import "testing"

func TestLocaleForLanguage(t *testing.T) {
	cases := map[string]string{
		"hi":      "hi-IN",
		"HI":      "hi-IN",
		" mr ":    "mr-IN",
		"en":      "en-US",
		"ta":      "ta-IN",
		"te":      "te-IN",
		"bn":      "bn-IN",
		"fr":      DefaultLocale,
		"":        DefaultLocale,
		"unknown": DefaultLocale,
	}
	for in, want := range cases {
		if got := LocaleForLanguage(in); got != want {
			t.Errorf("LocaleForLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectVoicePrefersExactLocaleFemale(t *testing.T) {
	voices := []Voice{
		{Name: "Google UK English Male", Lang: "en-GB"},
		{Name: "Google hindi", Lang: "hi-IN"},
		{Name: "Microsoft Swara - Hindi Female", Lang: "hi-IN"},
	}
	voice, ok := SelectVoice(voices, "hi-IN")
	if !ok || voice.Name != "Microsoft Swara - Hindi Female" {
		t.Fatalf("expected exact-locale female voice, got %+v ok=%v", voice, ok)
	}
}

func TestSelectVoiceFallsBackToExactLocale(t *testing.T) {
	voices := []Voice{
		{Name: "Google US English Female", Lang: "en-US"},
		{Name: "Google hindi", Lang: "hi-IN"},
	}
	voice, ok := SelectVoice(voices, "hi-IN")
	if !ok || voice.Name != "Google hindi" {
		t.Fatalf("expected exact-locale voice, got %+v ok=%v", voice, ok)
	}
}

func TestSelectVoiceFallsBackToAnyFemale(t *testing.T) {
	voices := []Voice{
		{Name: "Google UK English Male", Lang: "en-GB"},
		{Name: "Google US English Female", Lang: "en-US"},
	}
	voice, ok := SelectVoice(voices, "ta-IN")
	if !ok || voice.Name != "Google US English Female" {
		t.Fatalf("expected any female voice, got %+v ok=%v", voice, ok)
	}
}

func TestSelectVoiceDefaultsWhenNothingMatches(t *testing.T) {
	voices := []Voice{
		{Name: "Google UK English Male", Lang: "en-GB"},
	}
	if _, ok := SelectVoice(voices, "ta-IN"); ok {
		t.Fatal("expected device default (ok=false)")
	}
	if _, ok := SelectVoice(nil, "hi-IN"); ok {
		t.Fatal("expected device default for empty inventory")
	}
}
