package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"
)

// FrontMatter is a metadata block found at the very start of a document.
type FrontMatter struct {
	// Delim is "---" (YAML), "+++" (TOML) or ";;;" (JSON).
	Delim string
	// Raw is the text between the delimiters, nil when there was no block.
	Raw []byte
}

// Decode parses the metadata according to its delimiter.
func (fm FrontMatter) Decode() (map[string]any, error) {
	meta := make(map[string]any)
	if len(bytes.TrimSpace(fm.Raw)) == 0 {
		return meta, nil
	}
	var err error
	switch fm.Delim {
	case "---":
		err = yaml.Unmarshal(fm.Raw, &meta)
	case "+++":
		err = toml.Unmarshal(fm.Raw, &meta)
	case ";;;":
		err = json.Unmarshal(fm.Raw, &meta)
	default:
		err = fmt.Errorf("unknown delimiter %q", fm.Delim)
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// SplitFrontMatter separates a leading front matter block from the body.
// The block must open on the first line, look like metadata on the second
// and be closed by the same delimiter; otherwise src is returned unchanged
// as the body.
func SplitFrontMatter(src []byte) (FrontMatter, []byte) {
	openLine, openNext, ok := nextLine(src, 0)
	if !ok {
		return FrontMatter{}, src
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return FrontMatter{}, src
	}
	secondLine, _, ok := nextLine(src, openNext)
	if !ok || !frontMatterMetadataLikely(secondLine) {
		return FrontMatter{}, src
	}
	closeStart, closeNext, found := findClosingFrontMatterDelimiter(src, openNext, delim)
	if !found {
		return FrontMatter{}, src
	}
	return FrontMatter{Delim: string(delim), Raw: src[openNext:closeStart]}, src[closeNext:]
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	if bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("=")) {
		return true
	}
	return false
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
