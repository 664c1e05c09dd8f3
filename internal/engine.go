package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/phlin-dev/phlin/internal/algebra"
	"github.com/phlin-dev/phlin/internal/flow"
	"github.com/phlin-dev/phlin/internal/parser"
	"github.com/phlin-dev/phlin/internal/symbol"
	tt "github.com/phlin-dev/phlin/internal/types"
)

// Engine manages the analysis process for one run. Preload populates the
// shared symbol table; after that the table is read-only and Run may be
// called from multiple workers concurrently.
type Engine struct {
	rules        map[string]tt.ConfigRule
	budget       algebra.Budget
	symbols      *symbol.Table
	ignoredRules map[string]bool
	ignoredPaths []string
	cache        *Cache
}

// NewEngine creates an analysis engine from the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{
		rules:        config.Rules,
		budget:       config.Budget(),
		symbols:      symbol.NewTable(),
		ignoredRules: make(map[string]bool),
	}
}

// SetCache attaches a result cache; Run then skips files whose content and
// dependencies are unchanged.
func (e *Engine) SetCache(cache *Cache) {
	e.cache = cache
}

// IgnoreRule disables a rule for this run.
func (e *Engine) IgnoreRule(rule string) {
	e.ignoredRules[rule] = true
}

// IgnorePath excludes paths with the given prefix from analysis.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, path)
}

// IgnoresPath reports whether filename falls under an ignored prefix.
func (e *Engine) IgnoresPath(filename string) bool {
	for _, prefix := range e.ignoredPaths {
		if strings.HasPrefix(filename, prefix) {
			return true
		}
	}
	return false
}

// Preload parses every file and registers its declarations in the shared
// symbol table. It must finish before concurrent Run calls start; parse
// failures are skipped so one broken file cannot hide the others' symbols.
func (e *Engine) Preload(filenames []string) {
	for _, filename := range filenames {
		src, err := os.ReadFile(filename)
		if err != nil {
			continue
		}
		file, err := parser.Parse(filename, src)
		if err != nil {
			continue
		}
		e.symbols.AddFile(file)
	}
}

// Run analyzes one file and returns its issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			return issues, nil
		}
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	issues, err := e.runBytes(filename, src)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		_ = e.cache.Set(filename, issues)
	}
	return issues, nil
}

// RunSource analyzes in-memory source, mainly for tests and tooling.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.runBytes("<source>", source)
}

func (e *Engine) runBytes(filename string, src []byte) ([]tt.Issue, error) {
	file, err := parser.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	// file-local declarations must resolve even without a Preload pass
	symbols := symbol.NewTable()
	symbols.AddFile(file)
	mergeTables(symbols, e.symbols)

	suppressions := ParseSuppressions(file)
	analyzer := flow.New(symbols, e.budget)

	var issues []tt.Issue
	for _, fn := range file.Functions {
		issues = append(issues, analyzer.CheckFunction(filename, fn, "")...)
	}
	for _, class := range file.Classes {
		for _, method := range class.Methods {
			issues = append(issues, analyzer.CheckFunction(filename, method, class.Name)...)
		}
	}

	return e.filter(issues, suppressions), nil
}

// filter applies configured severities, ignored rules, and suppression
// pragmas.
func (e *Engine) filter(issues []tt.Issue, suppressions *Suppressions) []tt.Issue {
	out := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if e.ignoredRules[issue.Rule] {
			continue
		}
		if cfg, ok := e.rules[issue.Rule]; ok {
			if cfg.Severity == tt.SeverityOff {
				continue
			}
			issue.Severity = cfg.Severity
		}
		if suppressions.Suppressed(issue.Rule, issue.Start.Line) {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// mergeTables copies src's declarations into dst without overwriting
// file-local ones.
func mergeTables(dst, src *symbol.Table) {
	src.Each(func(c *symbol.ClassInfo) {
		if _, exists := dst.Lookup(c.Name); !exists {
			dst.AddClass(c)
		}
	})
	for _, fn := range src.FunctionNames() {
		dst.AddFunction(fn)
	}
}
