package extract

import (
	"regexp"
	"strings"
)

// =============================================================================
// Declaration Records
// =============================================================================

// DeclKind classifies a lexical declaration.
type DeclKind int

const (
	DeclFunction  DeclKind = 0
	DeclClass     DeclKind = 1
	DeclInterface DeclKind = 2
	DeclVariable  DeclKind = 3
)

// Declaration is a code entity found by the lexical rules.
type Declaration struct {
	Kind DeclKind
	Name string
	Line int

	// Extends names the superclass for class declarations, when the
	// declaration syntax carries one.
	Extends string

	// Singleton marks classes that lexically look like singletons
	// (a getInstance accessor in the same file).
	Singleton bool
}

// Import is an import-like dependency statement.
type Import struct {
	Specifier string
	Line      int
}

// IsRelative reports whether the specifier points at a file inside the
// scanned tree rather than an external module.
func (i Import) IsRelative() bool {
	return strings.HasPrefix(i.Specifier, "./") ||
		strings.HasPrefix(i.Specifier, "../") ||
		strings.HasPrefix(i.Specifier, ".")
}

// =============================================================================
// Rules Interface
// =============================================================================

// Rules is the per-language lexical extraction interface. Implementations are
// pattern matchers, not parsers; a real parser can be substituted behind this
// interface without touching the graph or query layers.
type Rules interface {
	// Language returns the language name (e.g. "go").
	Language() string

	// Extensions returns the file extensions this language claims.
	Extensions() []string

	// Declarations extracts function/class/interface/variable declarations.
	Declarations(content string) []Declaration

	// Imports extracts import-like dependency statements.
	Imports(content string) []Import
}

// RulesByExtension maps file extensions to language rules. The default set
// covers Go, JavaScript, TypeScript, and Python.
func RulesByExtension() map[string]Rules {
	registry := make(map[string]Rules)
	for _, rules := range []Rules{
		GoRules{},
		JavaScriptRules{typescript: false},
		JavaScriptRules{typescript: true},
		PythonRules{},
	} {
		for _, ext := range rules.Extensions() {
			registry[ext] = rules
		}
	}
	return registry
}

// =============================================================================
// Shared Scanning Helpers
// =============================================================================

// callPattern treats any identifier followed by an open paren as a potential
// call site. This intentionally over-links same-named functions across files.
var callPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// callKeywords are control-flow words that look like calls lexically.
var callKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {}, "return": {},
	"func": {}, "function": {}, "def": {}, "class": {}, "new": {}, "go": {},
	"defer": {}, "select": {}, "range": {}, "elif": {}, "with": {}, "print": {},
}

// ScanCalls returns the distinct callee identifiers referenced in content.
func ScanCalls(content string) []string {
	seen := make(map[string]struct{})
	var calls []string
	for _, match := range callPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if _, keyword := callKeywords[name]; keyword {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		calls = append(calls, name)
	}
	return calls
}

// conditionalPattern feeds the cheap complexity heuristic.
var conditionalPattern = regexp.MustCompile(`\b(if|for|while|switch|case|elif|except|catch)\b`)

// CountConditionals counts conditional keywords in content.
func CountConditionals(content string) int {
	return len(conditionalPattern.FindAllString(content, -1))
}

// forEachLine runs fn over content line by line with 1-based line numbers.
func forEachLine(content string, fn func(line string, number int)) {
	number := 1
	for len(content) > 0 {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			fn(content, number)
			break
		}
		fn(content[:idx], number)
		content = content[idx+1:]
		number++
	}
}

// =============================================================================
// Go
// =============================================================================

// GoRules extracts declarations from Go sources line by line.
type GoRules struct{}

var (
	goFuncPattern      = regexp.MustCompile(`^\s*func\s+(?:\([^)]+\)\s*)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	goStructPattern    = regexp.MustCompile(`^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)\s+struct\b`)
	goInterfacePattern = regexp.MustCompile(`^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)\s+interface\b`)
	goVarPattern       = regexp.MustCompile(`^\s*(?:var|const)\s+([A-Za-z_][A-Za-z0-9_]*)\b`)
	goImportPattern    = regexp.MustCompile(`^\s*import\s+(?:[A-Za-z_.]+\s+)?"([^"]+)"`)
	goImportLine       = regexp.MustCompile(`^\s*(?:[A-Za-z_.]+\s+)?"([^"]+)"`)
)

func (GoRules) Language() string     { return "go" }
func (GoRules) Extensions() []string { return []string{".go"} }

func (GoRules) Declarations(content string) []Declaration {
	var decls []Declaration
	forEachLine(content, func(line string, number int) {
		switch {
		case goFuncPattern.MatchString(line):
			name := goFuncPattern.FindStringSubmatch(line)[1]
			decls = append(decls, Declaration{Kind: DeclFunction, Name: name, Line: number})
		case goStructPattern.MatchString(line):
			name := goStructPattern.FindStringSubmatch(line)[1]
			decls = append(decls, Declaration{Kind: DeclClass, Name: name, Line: number})
		case goInterfacePattern.MatchString(line):
			name := goInterfacePattern.FindStringSubmatch(line)[1]
			decls = append(decls, Declaration{Kind: DeclInterface, Name: name, Line: number})
		case goVarPattern.MatchString(line):
			name := goVarPattern.FindStringSubmatch(line)[1]
			decls = append(decls, Declaration{Kind: DeclVariable, Name: name, Line: number})
		}
	})
	return decls
}

func (GoRules) Imports(content string) []Import {
	var imports []Import
	inBlock := false
	forEachLine(content, func(line string, number int) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && trimmed == ")":
			inBlock = false
		case inBlock:
			if match := goImportLine.FindStringSubmatch(line); match != nil {
				imports = append(imports, Import{Specifier: match[1], Line: number})
			}
		default:
			if match := goImportPattern.FindStringSubmatch(line); match != nil {
				imports = append(imports, Import{Specifier: match[1], Line: number})
			}
		}
	})
	return imports
}

// =============================================================================
// JavaScript / TypeScript
// =============================================================================

// JavaScriptRules extracts declarations from JavaScript and TypeScript
// sources. TypeScript adds interface declarations on top of the JS rules.
type JavaScriptRules struct {
	typescript bool
}

var (
	jsFuncPattern      = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsArrowPattern     = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][A-Za-z0-9_$]*)\s*=>`)
	jsClassPattern     = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)(?:\s+extends\s+([A-Za-z_$][A-Za-z0-9_$.]*))?`)
	tsInterfacePattern = regexp.MustCompile(`^\s*(?:export\s+)?interface\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsVarPattern       = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\b`)
	jsImportFrom       = regexp.MustCompile(`import\s+[^'"]*?from\s+['"]([^'"]+)['"]`)
	jsImportBare       = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	jsRequire          = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsGetInstance      = regexp.MustCompile(`\bgetInstance\s*\(`)
)

func (r JavaScriptRules) Language() string {
	if r.typescript {
		return "typescript"
	}
	return "javascript"
}

func (r JavaScriptRules) Extensions() []string {
	if r.typescript {
		return []string{".ts", ".tsx"}
	}
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (r JavaScriptRules) Declarations(content string) []Declaration {
	singleton := jsGetInstance.MatchString(content)

	var decls []Declaration
	forEachLine(content, func(line string, number int) {
		if match := jsFuncPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{Kind: DeclFunction, Name: match[1], Line: number})
			return
		}
		if match := jsClassPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{
				Kind:      DeclClass,
				Name:      match[1],
				Line:      number,
				Extends:   match[2],
				Singleton: singleton,
			})
			return
		}
		if r.typescript {
			if match := tsInterfacePattern.FindStringSubmatch(line); match != nil {
				decls = append(decls, Declaration{Kind: DeclInterface, Name: match[1], Line: number})
				return
			}
		}
		if match := jsArrowPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{Kind: DeclFunction, Name: match[1], Line: number})
			return
		}
		if match := jsVarPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{Kind: DeclVariable, Name: match[1], Line: number})
		}
	})
	return decls
}

func (r JavaScriptRules) Imports(content string) []Import {
	var imports []Import
	forEachLine(content, func(line string, number int) {
		if match := jsImportFrom.FindStringSubmatch(line); match != nil {
			imports = append(imports, Import{Specifier: match[1], Line: number})
			return
		}
		if match := jsImportBare.FindStringSubmatch(line); match != nil {
			imports = append(imports, Import{Specifier: match[1], Line: number})
			return
		}
		for _, match := range jsRequire.FindAllStringSubmatch(line, -1) {
			imports = append(imports, Import{Specifier: match[1], Line: number})
		}
	})
	return imports
}

// =============================================================================
// Python
// =============================================================================

// PythonRules extracts declarations from Python sources.
type PythonRules struct{}

var (
	pyDefPattern    = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`)
	pyClassPattern  = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)(?:\(([^)]*)\))?`)
	pyVarPattern    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)
	pyImportPattern = regexp.MustCompile(`^\s*import\s+([A-Za-z_][A-Za-z0-9_.]*)`)
	pyFromPattern   = regexp.MustCompile(`^\s*from\s+(\.*[A-Za-z_][A-Za-z0-9_.]*|\.+)\s+import`)
)

func (PythonRules) Language() string     { return "python" }
func (PythonRules) Extensions() []string { return []string{".py"} }

func (PythonRules) Declarations(content string) []Declaration {
	var decls []Declaration
	forEachLine(content, func(line string, number int) {
		if match := pyDefPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{Kind: DeclFunction, Name: match[1], Line: number})
			return
		}
		if match := pyClassPattern.FindStringSubmatch(line); match != nil {
			extends := ""
			if bases := strings.TrimSpace(match[2]); bases != "" {
				extends = strings.TrimSpace(strings.Split(bases, ",")[0])
			}
			decls = append(decls, Declaration{Kind: DeclClass, Name: match[1], Line: number, Extends: extends})
			return
		}
		// Module-level assignments only: indented assignments are locals.
		if match := pyVarPattern.FindStringSubmatch(line); match != nil {
			decls = append(decls, Declaration{Kind: DeclVariable, Name: match[1], Line: number})
		}
	})
	return decls
}

func (PythonRules) Imports(content string) []Import {
	var imports []Import
	forEachLine(content, func(line string, number int) {
		if match := pyFromPattern.FindStringSubmatch(line); match != nil {
			imports = append(imports, Import{Specifier: match[1], Line: number})
			return
		}
		if match := pyImportPattern.FindStringSubmatch(line); match != nil {
			imports = append(imports, Import{Specifier: match[1], Line: number})
		}
	})
	return imports
}
