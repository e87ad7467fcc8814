package trash

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/gabriel-vasile/mimetype"
	"github.com/muesli/termenv"
)

// printContents writes a trashed file's contents to stdout. In color
// mode, text content is syntax-highlighted; binary content and anything
// without a usable lexer is written raw.
func (e *Engine) printContents(path string, data []byte) {
	if !e.policy.Color {
		e.stdout.Write(data)
		return
	}

	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "text/") {
			e.stdout.Write(data)
			return
		}
		lexer = lexers.Analyse(string(data))
	}
	if lexer == nil {
		e.stdout.Write(data)
		return
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal256")
	if termenv.ColorProfile() == termenv.TrueColor {
		formatter = formatters.Get("terminal16m")
	}

	iterator, err := lexer.Tokenise(nil, string(data))
	if err != nil {
		e.stdout.Write(data)
		return
	}
	if err := formatter.Format(e.stdout, styles.Get("monokai"), iterator); err != nil {
		e.stdout.Write(data)
	}
}
