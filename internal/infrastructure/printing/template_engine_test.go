package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name  string
		value decimal.Decimal
		want  string
	}{
		{"zero", decimal.Zero, "R$ 0,00"},
		{"cents", decimal.RequireFromString("0.5"), "R$ 0,50"},
		{"thousands", decimal.RequireFromString("1234.5"), "R$ 1.234,50"},
		{"millions", decimal.RequireFromString("1234567.891"), "R$ 1.234.567,89"},
		{"negative", decimal.RequireFromString("-42.1"), "-R$ 42,10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.value))
		})
	}
}

func TestFormatDecimalAndPercent(t *testing.T) {
	assert.Equal(t, "12,346", formatDecimal(decimal.RequireFromString("12.3456"), 3))
	assert.Equal(t, "-0,25", formatDecimal(decimal.RequireFromString("-0.25"), 2))
	assert.Equal(t, "7", formatDecimal(decimal.NewFromInt(7), 0))
	assert.Equal(t, "12,5%", formatPercent(decimal.RequireFromString("12.5")))
	assert.Equal(t, "10%", formatPercent(decimal.NewFromInt(10)))
	assert.Equal(t, "1.500", formatQuantity(1500))
}

func TestTemplateEngine_Dates(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	engine := NewTemplateEngine(WithLocation(loc))
	ts := time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "14/01/2024", engine.formatDate(ts))
	assert.Equal(t, "14/01/2024 23:30", engine.formatDateTime(&ts))
	assert.Equal(t, "", engine.formatDate((*time.Time)(nil)))
	assert.Equal(t, "", engine.formatDate(42))
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()

	out, err := engine.RenderString("greeting", `<p>{{.Name}} deve {{formatMoney .Total}}</p>`, map[string]any{
		"Name":  "<Ana>",
		"Total": decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;Ana&gt; deve R$ 10,00</p>", out)

	_, err = engine.RenderString("empty", "  ", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString("broken", "{{.Name", nil)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString("missing", "{{.Name.First}}", struct{ Name string }{"x"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	engine := NewTemplateEngine(WithFuncs(map[string]any{"shout": func(s string) string { return s + "!" }}))
	out, err := engine.RenderString("f", `{{shout "oi"}} {{orDash ""}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "oi! -", out)
}
