package lang

import (
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Style selects the whitespace of the generated CSS.
type Style int

const (
	Nested Style = iota
	Expanded
	Compact
	Compressed
	Legacy
)

var styleNames = [...]string{
	Nested:     "nested",
	Expanded:   "expanded",
	Compact:    "compact",
	Compressed: "compressed",
	Legacy:     "legacy",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}

	return styleNames[s]
}

// ParseStyle returns the style named s, ignoring case.
func ParseStyle(s string) (Style, bool) {
	i := slices.Index(styleNames[:], strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return Nested, false
	}

	return Style(i), true
}

// Styles returns an iterator over the style names.
func Styles() iter.Seq[string] {
	return slices.Values(styleNames[:])
}

// DebugInfo selects how rules are annotated with their source location.
type DebugInfo int

const (
	NoDebugInfo DebugInfo = iota
	// DebugComments precedes each rule with "/* line N, file */".
	DebugComments
	// DebugMedia precedes each rule with the @media -sass-debug-info
	// block understood by FireSass.
	DebugMedia
)

var debugInfoNames = [...]string{
	NoDebugInfo:   "none",
	DebugComments: "comments",
	DebugMedia:    "media",
}

func (d DebugInfo) String() string {
	if d < 0 || int(d) >= len(debugInfoNames) {
		return "DebugInfo(" + strconv.Itoa(int(d)) + ")"
	}

	return debugInfoNames[d]
}

// ParseDebugInfo returns the debug info mode named s. "comment" is
// accepted for "comments".
func ParseDebugInfo(s string) (DebugInfo, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "comment" {
		s = "comments"
	}

	i := slices.Index(debugInfoNames[:], s)
	if i < 0 {
		return NoDebugInfo, false
	}

	return DebugInfo(i), true
}

// maxSelectors is the number of selectors older browsers accept in one
// stylesheet.
const maxSelectors = 4095

// layout is the whitespace of a style.
type layout struct {
	semicolon bool   // end the last declaration of a block with ";"
	sp        string // after ":" and before "{"
	tab       string // one level of indentation
	nest      bool   // indent rules by their nesting
	separate  string // before each top-level rule
	nl        string // after "{" and each declaration
	closeNL   string // after "}"
	lastNL    string // after the last declaration of a block
}

var layouts = [...]layout{
	Legacy:     {true, " ", "  ", false, "", "\n", "\n", "\n"},
	Compressed: {false, "", "", false, "", "", "", ""},
	Compact:    {true, " ", "", false, "\n", " ", "\n", " "},
	Expanded:   {true, " ", "  ", false, "\n", "\n", "\n", "\n"},
	Nested:     {true, " ", "  ", true, "\n", "\n", "\n", " "},
}

func (s Style) layout() layout {
	if s < 0 || int(s) >= len(layouts) {
		return layouts[Nested]
	}

	return layouts[s]
}

// Rules resolves @extend and returns the rules in output order.
func (s *Session) Rules() []*Rule {
	if !s.resolved {
		s.resolveExtends()
		s.resolved = true
	}

	rules := slices.Clone(s.rules)
	slices.SortStableFunc(rules, func(a, b *Rule) int { return a.order() - b.order() })

	return rules
}

var debugEscape = regexp.MustCompile(`([^-a-zA-Z0-9_])`)

// renderer walks the ordered rules, opening and closing only the headers
// that differ between consecutive rules.
type renderer struct {
	layout
	debug DebugInfo
	super string

	out       strings.Builder
	prev      []Header
	prevNest  int
	families  []family
	dangling  bool
	tail      string // held back after the last declaration of the open block
	selectors int
}

func (s *Session) render(rules []*Rule) string {
	r := renderer{
		layout: s.opts.style.layout(),
		debug:  s.opts.debugInfo,
		super:  s.opts.superSelector,
	}

	if s.opts.style == Compressed {
		r.debug = NoDebugInfo
	}

	for _, rule := range rules {
		r.rule(rule)
	}

	r.close(0)

	if r.selectors > maxSelectors {
		s.opts.logger.WarnContext(s.ctx, "too many selectors for some browsers",
			slog.Int("selectors", r.selectors),
			slog.Int("limit", maxSelectors),
		)
	}

	return r.out.String()
}

// family is a rendered rule that later rules may descend from.
type family struct {
	anc  []Header
	sels []string
}

func newFamily(rule *Rule) family {
	sels := rule.Selectors()

	f := family{anc: rule.Ancestry, sels: make([]string, len(sels))}
	for i, s := range sels {
		f.sels[i] = s.Render(false)
	}

	return f
}

// descends reports whether f sits inside the same at-rules as parent and
// every selector of f continues one of parent's selectors with a
// combinator.
func (f family) descends(parent family) bool {
	n := len(f.anc)
	if n == 0 || n != len(parent.anc) || len(f.sels) == 0 {
		return false
	}

	for i := range n - 1 {
		if !f.anc[i].Equal(parent.anc[i]) {
			return false
		}
	}

	for _, s := range f.sels {
		if !slices.ContainsFunc(parent.sels, func(p string) bool {
			return strings.HasPrefix(s, p+" ")
		}) {
			return false
		}
	}

	return true
}

// depth returns the number of rendered rules that rule descends from.
// Only rendered selectors are consulted, never source nesting.
func (r *renderer) depth(rule *Rule) int {
	f := newFamily(rule)

	for len(r.families) > 0 && !f.descends(r.families[len(r.families)-1]) {
		r.families = r.families[:len(r.families)-1]
	}

	n := len(r.families)

	if len(f.sels) > 0 {
		r.families = append(r.families, f)
	}

	return n
}

func (r *renderer) rule(rule *Rule) {
	if rule.IsEmpty() {
		return
	}

	depth := r.depth(rule)

	nesting := 0
	if r.nest {
		nesting = depth
	}

	anc := rule.Ancestry

	common := 0
	for common < len(r.prev) && common < len(anc) && r.prev[common].Equal(anc[common]) {
		common++
	}

	if r.dangling && common >= len(r.prev) {
		// the open block continues
		if !r.semicolon {
			r.out.WriteString(";")
		}

		r.out.WriteString(r.nl)
		r.tail = ""
	}

	r.close(common)

	for i := common; i < len(anc); i++ {
		if i == 0 && depth == 0 && r.out.Len() > 0 {
			r.out.WriteString(r.layout.separate)
		}

		indent := strings.Repeat(r.tab, i+nesting)

		r.debugInfo(indent, rule)

		h := anc[i]
		if h.IsSelector() {
			r.selectors += len(h.Selectors)
		}

		r.out.WriteString(indent)
		r.out.WriteString(h.Render(","+r.sp, r.super, r.sp == ""))
		r.out.WriteString(r.sp + "{" + r.nl)
	}

	r.prev = anc
	r.prevNest = nesting

	indent := strings.Repeat(r.tab, len(anc)+nesting)
	last := len(rule.Properties) - 1

	for i, p := range rule.Properties {
		r.out.WriteString(indent)
		r.out.WriteString(p.Text(r.sp))

		switch {
		case len(anc) == 0:
			// top-level statements such as @charset are never followed by "}"
			r.out.WriteString(";" + r.closeNL)
		case i < last:
			r.out.WriteString(";" + r.nl)
		case r.semicolon:
			r.out.WriteString(";")
			r.tail = r.lastNL
		default:
			r.tail = r.lastNL
		}
	}

	r.dangling = len(anc) > 0
}

// close ends every open block beyond the first keep headers.
func (r *renderer) close(keep int) {
	r.out.WriteString(r.tail)
	r.tail = ""

	for i := len(r.prev); i > keep; i-- {
		if strings.HasSuffix(r.out.String(), "\n") {
			r.out.WriteString(strings.Repeat(r.tab, i-1+r.prevNest))
		}

		r.out.WriteString("}")

		switch {
		case i-1 == keep:
			r.out.WriteString(r.closeNL)
		case r.lastNL != "\n":
			r.out.WriteString(r.lastNL)
		default:
			r.out.WriteString(r.closeNL)
		}

		r.dangling = false
	}

	r.prev = r.prev[:min(keep, len(r.prev))]
}

func (r *renderer) debugInfo(indent string, rule *Rule) {
	if r.debug == NoDebugInfo || rule.Line <= 0 || rule.File == "" {
		return
	}

	line := strconv.Itoa(rule.Line)

	r.out.WriteString(indent)

	switch r.debug {
	case DebugComments:
		r.out.WriteString("/* line " + line + ", " + rule.File + " */")
	case DebugMedia:
		file := debugEscape.ReplaceAllString(rule.File, `\$1`)
		r.out.WriteString("@media -sass-debug-info{filename{font-family:file\\:\\/\\/" + file +
			"}line{font-family:\\00003" + line + "}}")
	}

	r.out.WriteString(r.nl)
}
