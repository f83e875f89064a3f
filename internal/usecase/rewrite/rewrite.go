package rewrite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Bnei-Baruch/apiurlfix/internal/app/template"
	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

// Rule names, in the order they are applied.
const (
	RuleTemplateStatic       = "template-static"
	RuleTemplateInterpolated = "template-interpolated"
	RuleSingleQuoted         = "single-quoted"
)

var reIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type rule struct {
	name   string
	re     *regexp.Regexp
	render func(path string) (string, bool)
}

// Rewriter turns hardcoded backend URL literals into helper calls.
// It is safe for concurrent use.
type Rewriter struct {
	helper string
	imp    domain.ImportConfig
	rules  []rule

	importLine   string
	reImported   *regexp.Regexp
	// reMarker matches the marker line and the blank line after it.
	reMarker     *regexp.Regexp
	reMarkerLine *regexp.Regexp
	reResidual   *regexp.Regexp
}

// Outcome is the result of rewriting one file's content.
type Outcome struct {
	Content     string
	Hits        []domain.RuleHit
	ImportAdded bool
	Changed     bool
	// Residual counts base URL occurrences no rule could rewrite.
	Residual    int
}

// NewRewriter compiles the rewrite rules for the configured base URL and helper.
func NewRewriter(rc domain.RewriteConfig, ic domain.ImportConfig) (*Rewriter, error) {
	base := strings.TrimRight(strings.TrimSpace(rc.BaseURL), "/")
	if base == "" {
		return nil, invalid("rewrite.base_url", errors.New("base url is required"))
	}
	if strings.ContainsAny(base, "'\"`\n") {
		return nil, invalid("rewrite.base_url", fmt.Errorf("base url %q contains a quote or newline", base))
	}
	helper := strings.TrimSpace(rc.Helper)
	if !reIdent.MatchString(helper) {
		return nil, invalid("rewrite.helper", fmt.Errorf("helper %q is not a valid identifier", rc.Helper))
	}
	module := strings.TrimSpace(ic.Module)
	if module == "" || strings.ContainsAny(module, "'\"`\n") {
		return nil, invalid("import.module", fmt.Errorf("module %q is empty or contains a quote", ic.Module))
	}

	stmt := ic.Statement
	if strings.TrimSpace(stmt) == "" {
		stmt = domain.DefaultImportStatement
	}
	importLine, err := template.RenderString(stmt, map[string]string{"helper": helper, "module": module})
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(importLine, "\r\n") {
		return nil, invalid("import.statement", errors.New("import statement must be a single line"))
	}

	q := regexp.QuoteMeta(base)
	// The path must be empty or start a new URL component so "/apiary" is not taken for "/api".
	tail := "(?:[/?#]"

	rw := &Rewriter{
		helper:     helper,
		imp:        ic,
		importLine: importLine,
		reImported: regexp.MustCompile(`from\s+['"]` + regexp.QuoteMeta(module) + `['"]`),
		reResidual: regexp.MustCompile(q + `(?:[^A-Za-z0-9_.\-]|$)`),
	}
	if marker := strings.TrimSpace(ic.Marker); marker != "" {
		line := `(?m)^[ \t]*` + regexp.QuoteMeta(marker) + `;?[ \t]*\r?\n`
		rw.reMarker = regexp.MustCompile(line + `[ \t]*\r?\n`)
		rw.reMarkerLine = regexp.MustCompile(line)
	}

	rw.rules = []rule{
		{
			name: RuleTemplateStatic,
			re:   regexp.MustCompile("`" + q + "(" + tail + "[^$`]*)?)`"),
			render: func(path string) (string, bool) {
				if escapedTail(path) {
					return "", false
				}
				if strings.Contains(path, "'") {
					return "`${" + helper + "(`" + path + "`)}`", true
				}
				return "`${" + helper + "('" + path + "')}`", true
			},
		},
		{
			name: RuleTemplateInterpolated,
			re:   regexp.MustCompile("`" + q + "(" + tail + "[^`]*)?)`"),
			render: func(path string) (string, bool) {
				if !strings.Contains(path, "${") || !balanced(path) || escapedTail(path) {
					return "", false
				}
				return "`${" + helper + "(`" + path + "`)}`", true
			},
		},
		{
			name: RuleSingleQuoted,
			re:   regexp.MustCompile("'" + q + "(" + tail + `[^'\n]*)?)'`),
			render: func(path string) (string, bool) {
				if escapedTail(path) {
					return "", false
				}
				return helper + "('" + path + "')", true
			},
		},
	}

	return rw, nil
}

// Helper returns the helper function name calls are rewritten to.
func (rw *Rewriter) Helper() string { return rw.helper }

// Apply adds the helper import where the marker allows it and rewrites every
// matching literal. Applying it to its own output is a no-op.
func (rw *Rewriter) Apply(content string) Outcome {
	out := Outcome{Content: content}
	out.Content, out.ImportAdded = rw.EnsureImport(out.Content)

	for _, r := range rw.rules {
		next, n := replace(r.re, out.Content, r.render)
		if n > 0 {
			out.Hits = append(out.Hits, domain.RuleHit{Rule: r.name, Count: n})
			out.Content = next
		}
	}

	out.Residual = len(rw.reResidual.FindAllStringIndex(out.Content, -1))
	out.Changed = out.Content != content
	return out
}

// EnsureImport inserts the helper import unless the module is already imported.
// The import goes after the marker directive and the blank line following it.
// A marker without that blank line gets nothing. Files without the marker are
// left alone unless the marker is optional, in which case the import is prepended.
func (rw *Rewriter) EnsureImport(content string) (string, bool) {
	if rw.reImported.MatchString(content) {
		return content, false
	}

	nl := "\n"
	if strings.Contains(content, "\r\n") {
		nl = "\r\n"
	}

	if rw.reMarker != nil {
		if loc := rw.reMarker.FindStringIndex(content); loc != nil {
			head, rest := content[:loc[1]], content[loc[1]:]

			var b strings.Builder
			b.Grow(len(content) + len(rw.importLine) + 2*len(nl))
			b.WriteString(head)
			b.WriteString(rw.importLine)
			b.WriteString(nl)
			b.WriteString(nl)
			b.WriteString(rest)
			return b.String(), true
		}
		if rw.imp.RequireMarker || rw.reMarkerLine.MatchString(content) {
			return content, false
		}
	} else if rw.imp.RequireMarker {
		return content, false
	}

	sep := nl + nl
	if strings.HasPrefix(content, "import ") {
		sep = nl
	}
	return rw.importLine + sep + content, true
}

// replace is ReplaceAllStringFunc with access to the first submatch. Matches
// render refuses are kept verbatim.
func replace(re *regexp.Regexp, s string, render func(string) (string, bool)) (string, int) {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))

	n := 0
	last := 0
	for _, m := range idx {
		path := ""
		if m[2] >= 0 {
			path = s[m[2]:m[3]]
		}
		repl, ok := render(path)
		if !ok {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(repl)
		last = m[1]
		n++
	}
	if n == 0 {
		return s, 0
	}
	b.WriteString(s[last:])
	return b.String(), n
}

// balanced reports whether every ${ in a template body is closed. A body cut
// short by a nested template literal is not.
func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			depth++
			i++
		case s[i] == '{' && depth > 0:
			depth++
		case s[i] == '}' && depth > 0:
			depth--
		}
	}
	return depth == 0
}

// escapedTail reports whether s ends in an odd run of backslashes, meaning the
// literal's closing delimiter was escaped and the match stopped early.
func escapedTail(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func invalid(field string, err error) error {
	return &domain.OpError{
		Op:   "rewrite.compile",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %w: %w", field, err, domain.ErrInvalidConfig),
	}
}
