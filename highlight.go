package mddoc

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

type codeRun struct {
	text   string
	format RunFormat
}

var (
	lexerCache   = make(map[string]chroma.Lexer)
	lexerCacheMu sync.RWMutex
)

func lexerFor(lang string) chroma.Lexer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, " \t{"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return nil
	}
	lexerCacheMu.RLock()
	lexer, ok := lexerCache[lang]
	lexerCacheMu.RUnlock()
	if ok {
		return lexer
	}
	lexer = lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match("file." + lang)
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	lexerCacheMu.Lock()
	lexerCache[lang] = lexer
	lexerCacheMu.Unlock()
	return lexer
}

// highlightCode splits code into coloured runs using the chroma lexer for
// lang. It reports false when the language is unknown or lexing fails; the
// caller then emits the code as a single run. The runs always concatenate
// back to code.
func highlightCode(code, lang, styleName string, base RunFormat) ([]codeRun, bool) {
	lexer := lexerFor(lang)
	if lexer == nil {
		return nil, false
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, false
	}
	style := styles.Get(styleName)
	var runs []codeRun
	for _, tok := range iterator.Tokens() {
		if tok.Value == "" {
			continue
		}
		format := base
		entry := style.Get(tok.Type)
		if entry.Colour.IsSet() {
			format.Color = entry.Colour.String()
		}
		format.Bold = entry.Bold == chroma.Yes
		format.Italic = entry.Italic == chroma.Yes
		if n := len(runs); n > 0 && runs[n-1].format == format {
			runs[n-1].text += tok.Value
			continue
		}
		runs = append(runs, codeRun{text: tok.Value, format: format})
	}
	// chroma terminates the last line with a newline the source did not have.
	if n := len(runs); n > 0 && !strings.HasSuffix(code, "\n") {
		runs[n-1].text = strings.TrimSuffix(runs[n-1].text, "\n")
		if runs[n-1].text == "" {
			runs = runs[:n-1]
		}
	}
	if len(runs) == 0 {
		return nil, false
	}
	return runs, true
}
