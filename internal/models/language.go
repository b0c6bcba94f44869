package models

import (
	"path/filepath"
	"strings"
)

// Language pairs a human-readable language name with its short code
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Languages is the closed set of recognized caption languages
var Languages = []Language{
	{Name: "English", Code: "en"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Bengali", Code: "bn"},
	{Name: "Telugu", Code: "te"},
	{Name: "Marathi", Code: "mr"},
	{Name: "Tamil", Code: "ta"},
	{Name: "Gujarati", Code: "gu"},
	{Name: "Urdu", Code: "ur"},
	{Name: "Kannada", Code: "kn"},
	{Name: "Odia", Code: "or"},
	{Name: "Malayalam", Code: "ml"},
	{Name: "Punjabi", Code: "pa"},
	{Name: "Assamese", Code: "as"},
	{Name: "Maithili", Code: "mai"},
	{Name: "Sanskrit", Code: "sa"},
	{Name: "Nepali", Code: "ne"},
	{Name: "Konkani", Code: "kok"},
	{Name: "Manipuri", Code: "mni"},
	{Name: "Bodo", Code: "brx"},
	{Name: "Dogri", Code: "doi"},
	{Name: "Kashmiri", Code: "ks"},
	{Name: "Santali", Code: "sat"},
	{Name: "Sindhi", Code: "sd"},
}

var (
	languagesByName = make(map[string]Language, len(Languages))
	languagesByCode = make(map[string]Language, len(Languages))
)

func init() {
	for _, l := range Languages {
		languagesByName[strings.ToLower(l.Name)] = l
		languagesByCode[l.Code] = l
	}
}

// LanguageByCode returns the language registered under code
func LanguageByCode(code string) (Language, bool) {
	l, ok := languagesByCode[strings.ToLower(strings.TrimSpace(code))]
	return l, ok
}

// LanguageByName returns the language with the given name, ignoring case
func LanguageByName(name string) (Language, bool) {
	l, ok := languagesByName[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// ResolveLanguage accepts either a language name or a code
func ResolveLanguage(value string) (Language, bool) {
	if l, ok := LanguageByName(value); ok {
		return l, true
	}
	return LanguageByCode(value)
}

// AcceptedImageExtensions lists the image formats recognized by extension
var AcceptedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// IsAcceptedImage reports whether filename carries an accepted image extension.
// Matching is case-insensitive and never looks at file content.
func IsAcceptedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, accepted := range AcceptedImageExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}
