package workspace

import "strings"

var languageByExt = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"html": "html",
	"htm":  "html",
	"css":  "css",
	"scss": "scss",
	"sass": "sass",
	"json": "json",
	"md":   "markdown",
	"py":   "python",
	"php":  "php",
	"rb":   "ruby",
	"go":   "go",
	"rs":   "rust",
	"java": "java",
	"c":    "c",
	"cpp":  "cpp",
	"xml":  "xml",
	"yml":  "yaml",
	"yaml": "yaml",
	"svg":  "xml",
}

// LanguageForPath derives an editor language from the file extension.
// Unknown extensions map to plaintext.
func LanguageForPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 || i == len(path)-1 {
		return "plaintext"
	}
	if lang, ok := languageByExt[strings.ToLower(path[i+1:])]; ok {
		return lang
	}
	return "plaintext"
}
