package domain

// Language is the detected language of user input.
type Language string

const (
	// LanguageEnglish is the pivot language for retrieval and search.
	LanguageEnglish Language = "english"
	// LanguageNepali is detected via Devanagari script.
	LanguageNepali Language = "nepali"
)

// DetectLanguage classifies text by script: any rune in the Devanagari
// block means Nepali, everything else (including empty input) is English.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return LanguageNepali
		}
	}
	return LanguageEnglish
}
