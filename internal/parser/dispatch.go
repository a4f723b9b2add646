package parser

import (
	"fmt"

	"github.com/cindexdev/cindex/internal/parser/lang"
)

// adapters maps canonical language names (walker.LangForExt's output) to
// the Adapter that handles them.
var adapters = map[string]Adapter{
	"typescript": lang.NewTypeScript(),
	"javascript": lang.NewJavaScript(),
	"python":     lang.NewPython(),
	"go":         lang.NewGo(),
	"rust":       lang.NewRust(),
	"java":       lang.NewJava(),
	"php":        lang.NewPHP(),
	"ruby":       lang.NewRuby(),
	"c":          lang.NewC(),
	"cpp":        lang.NewCPP(),
	"csharp":     lang.NewCSharp(),
}

// Parse dispatches source to the adapter for lang. Any failure — an
// unsupported language, a panic inside a grammar binding, or a tree-sitter
// parse error — yields an empty Result, never an error the caller must
// treat as fatal.
func Parse(source []byte, path string, language string) (result Result, warning string) {
	adapter, ok := adapters[language]
	if !ok {
		return Result{}, ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			warning = fmt.Sprintf("parse %s: recovered panic: %v", path, r)
		}
	}()

	res, err := adapter.Parse(source)
	if err != nil {
		return Result{}, fmt.Sprintf("parse %s: %v", path, err)
	}
	return res, ""
}

// Supported reports whether language has a registered adapter.
func Supported(language string) bool {
	_, ok := adapters[language]
	return ok
}
