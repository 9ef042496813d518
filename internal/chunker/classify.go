package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/codesearchcore/codesearchcore/internal/model"
)

// substringRule is one (substring, chunk type) pair. Rules for a language
// are checked in order; the first substring present in the chunk's
// trimmed content wins (spec §4.E).
type substringRule struct {
	substr string
	kind   model.ChunkType
}

// chunkTypeRules holds the per-language substring tables from spec §4.E.
// Languages not listed here (go, rust, c, cpp, csharp, ruby, php, kotlin)
// have no defined inference rule and always classify as ChunkTypeBlock.
var chunkTypeRules = map[string][]substringRule{
	"swift": {
		{"func ", model.ChunkTypeFunction},
		{"class ", model.ChunkTypeClass},
		{"struct ", model.ChunkTypeStruct},
		{"enum ", model.ChunkTypeEnum},
		{"protocol ", model.ChunkTypeProtocol},
	},
	"python": {
		{"def ", model.ChunkTypeFunction},
		{"class ", model.ChunkTypeClass},
	},
	"javascript": {
		{"function ", model.ChunkTypeFunction},
		{"class ", model.ChunkTypeClass},
		{"const ", model.ChunkTypeDeclaration},
		{"let ", model.ChunkTypeDeclaration},
	},
	"typescript": {
		{"function ", model.ChunkTypeFunction},
		{"class ", model.ChunkTypeClass},
		{"const ", model.ChunkTypeDeclaration},
		{"let ", model.ChunkTypeDeclaration},
	},
	"java": {
		{"public class ", model.ChunkTypeClass},
		{"class ", model.ChunkTypeClass},
		{"public void ", model.ChunkTypeMethod},
		{"private void ", model.ChunkTypeMethod},
	},
}

// classify assigns a chunk_type by the first matching substring rule for
// language, on content trimmed of surrounding whitespace (spec §4.E).
// Unrecognized languages, or content matching no rule, classify as
// ChunkTypeBlock.
func classify(language, content string) model.ChunkType {
	trimmed := strings.TrimSpace(content)
	for _, rule := range chunkTypeRules[language] {
		if strings.Contains(trimmed, rule.substr) {
			return rule.kind
		}
	}
	return model.ChunkTypeBlock
}

// chunkID derives a stable ID from the file path and line range rather
// than content: chunk boundaries are positional under the fixed-window
// scheme, so re-indexing an unchanged file with the same chunk_size and
// overlap always reproduces the same IDs for its windows.
func chunkID(filePath string, startLine, endLine int) string {
	input := fmt.Sprintf("%s:%d:%d", filePath, startLine, endLine)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:16]
}
