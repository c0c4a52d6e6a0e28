package modulecontent

import (
	"fmt"
	"strings"
)

// Section selects which half of a module an asset belongs to.
type Section string

// Section constants (typed).
const (
	SectionTraining   Section = "training"
	SectionAssessment Section = "assessment"
)

// Folder maps the UI section label to its storage folder name. The
// assessment section stores under "test": assets written before the
// two-section model exist only at that folder, so the mapping is a
// compatibility contract, not a naming slip.
func (s Section) Folder() string {
	if s == SectionAssessment {
		return "test"
	}
	return "training"
}

// AssetKind classifies stored assets.
type AssetKind string

// Asset kind constants (typed).
const (
	AssetKindImage             AssetKind = "image"
	AssetKindAudio             AssetKind = "audio"
	AssetKindTranslationSource AssetKind = "translation-source"
	AssetKindTranslationResult AssetKind = "translation-result"
)

// AssetKey derives the canonical storage key for one asset:
// {moduleID}/{folder}/{kind}/{sanitizedFilename}. Pure and idempotent.
func AssetKey(moduleID int64, section Section, kind AssetKind, filename string) string {
	return fmt.Sprintf("%d/%s/%s/%s", moduleID, section.Folder(), kind, SanitizeFilename(filename))
}

// SnapshotKey is the canonical location of a module's content snapshot.
func SnapshotKey(moduleID int64) string {
	return fmt.Sprintf("%d/content.json", moduleID)
}

// ModulePrefix is the storage prefix owning every key of a module. This is
// what relocation renames when a provisional identifier turns out wrong.
func ModulePrefix(moduleID int64) string {
	return fmt.Sprintf("%d/", moduleID)
}

// LegacyExportKeys returns the candidate keys for a module's legacy
// English export, most likely first. Two sanitization variants exist in the
// wild: the underscore form written by later exporters and the stripped form
// written by the original pipeline.
func LegacyExportKeys(moduleID int64, title string) []string {
	return legacyKeys(moduleID, title, "EN")
}

// LegacyLanguageKeys returns the candidate keys for the per-language
// translation sibling of a legacy export.
func LegacyLanguageKeys(moduleID int64, title string) []string {
	return legacyKeys(moduleID, title, "Languages")
}

func legacyKeys(moduleID int64, title, suffix string) []string {
	keys := []string{
		fmt.Sprintf("%d_%s_test_Tmp_%s.js", moduleID, SanitizeFilename(title), suffix),
	}
	if alt := stripFilename(title); alt != SanitizeFilename(title) {
		keys = append(keys, fmt.Sprintf("%d_%s_test_Tmp_%s.js", moduleID, alt, suffix))
	}
	return keys
}

// TranslationAudioKey derives the key for a generated narration audio file
// in the given language, using the configured voice for that language.
func TranslationAudioKey(moduleID int64, section Section, lang, slideID string) string {
	voice := VoiceFor(lang)
	name := fmt.Sprintf("%s_%s_%s.mp3", slideID, lang, voice.Name)
	return AssetKey(moduleID, section, AssetKindTranslationResult, name)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// SanitizeFilename replaces characters that are unsafe in object keys with
// underscores.
func SanitizeFilename(filename string) string {
	return filenameReplacer.Replace(filename)
}

// stripFilename is the older sanitization variant: drop anything outside
// [A-Za-z0-9._-] instead of replacing it.
func stripFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
