package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TemplateEngine binds document view models to html/template layouts.
// Money, dates and quantities are formatted the Brazilian way.
type TemplateEngine struct {
	funcMap  template.FuncMap
	location *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation prints dates in loc instead of UTC
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{location: time.UTC}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDecimal":  formatDecimal,
		"formatPercent":  formatPercent,
		"formatQuantity": formatQuantity,
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"orDash":         orDash,
		"upper":          strings.ToUpper,
		"add":            func(a, b int) int { return a + b },
		"isPositive":     func(v decimal.Decimal) bool { return v.IsPositive() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse compiles a named layout with the engine's functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute renders a parsed layout with data
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// formatMoney formats a value as Brazilian currency.
// Example: 1234.5 -> "R$ 1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "R$ " + formatDecimal(d, 2)
}

// formatDecimal formats with thousands separators and a decimal comma
func formatDecimal(d decimal.Decimal, places int) string {
	d = d.Round(int32(places))
	intPart := d.Truncate(0)
	frac := d.Sub(intPart).Abs().StringFixed(int32(places))
	out := ptBR.Sprintf("%d", intPart.IntPart())
	if d.IsNegative() && intPart.IsZero() {
		out = "-" + out
	}
	if places > 0 {
		out += "," + strings.TrimPrefix(frac, "0.")
	}
	return out
}

// formatPercent prints a percentage already expressed in percent units.
// Example: 12.5 -> "12,5%"
func formatPercent(d decimal.Decimal) string {
	s := strings.Replace(d.Round(2).String(), ".", ",", 1)
	return s + "%"
}

func formatQuantity(n int) string {
	return ptBR.Sprintf("%d", n)
}

func (e *TemplateEngine) formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02/01/2006")
}

func (e *TemplateEngine) formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02/01/2006 15:04")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
