// Package chunker splits source files into overlapping line windows and
// tags each with an inferred chunk type (spec §4.E). Sub-project detection
// is not done here; it lives in internal/scanner.
package chunker

import "strings"

// languageByExt maps a lowercased file extension (with leading dot) to the
// language tag stored on each chunk (spec §6).
var languageByExt = map[string]string{
	".swift": "swift",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".kt":    "kotlin",
}

// LanguageForPath returns the language tag for a file path's extension, and
// whether the extension is recognized at all (spec §6's fixed table; an
// unrecognized extension is not chunked).
func LanguageForPath(path string) (string, bool) {
	ext := extOf(path)
	lang, ok := languageByExt[ext]
	return lang, ok
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx:])
}

// SupportedExtensions returns every extension the chunker recognizes.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(languageByExt))
	for ext := range languageByExt {
		exts = append(exts, ext)
	}
	return exts
}
