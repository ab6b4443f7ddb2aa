package printing

import (
	"context"
	"html/template"

	"github.com/printshop/backend/internal/application/document"
	"go.uber.org/zap"
)

type compiledTemplate struct {
	layout DefaultTemplate
	tmpl   *template.Template
}

// Generator implements document.PDFGenerator with the built-in layouts
type Generator struct {
	engine    *TemplateEngine
	renderer  PDFRenderer
	templates map[document.Kind]compiledTemplate
	logger    *zap.Logger
}

// NewGenerator parses every built-in layout up front so a broken template
// fails at startup rather than on the first print.
func NewGenerator(engine *TemplateEngine, renderer PDFRenderer, logger *zap.Logger) (*Generator, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		engine:    engine,
		renderer:  renderer,
		templates: make(map[document.Kind]compiledTemplate),
		logger:    logger,
	}
	for _, layout := range GetDefaultTemplates() {
		content, err := LoadTemplateContent(layout.FilePath)
		if err != nil {
			return nil, err
		}
		tmpl, err := engine.Parse(string(layout.Kind), content)
		if err != nil {
			return nil, err
		}
		g.templates[layout.Kind] = compiledTemplate{layout: layout, tmpl: tmpl}
	}
	return g, nil
}

// RenderHTML binds data to the layout of kind
func (g *Generator) RenderHTML(kind document.Kind, data any) (string, error) {
	compiled, ok := g.templates[kind]
	if !ok {
		return "", NewRenderError(ErrCodeUnknownTemplate, "no template for document kind "+string(kind), nil)
	}
	return g.engine.Execute(compiled.tmpl, data)
}

// Generate renders the layout of kind and prints it to PDF
func (g *Generator) Generate(ctx context.Context, kind document.Kind, title string, data any) ([]byte, error) {
	html, err := g.RenderHTML(kind, data)
	if err != nil {
		return nil, err
	}
	layout := g.templates[kind].layout
	result, err := g.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  layout.PaperSize,
		Landscape:  layout.Landscape,
		Margins:    layout.Margins,
		Title:      title,
		FooterHTML: layout.FooterHTML,
	})
	if err != nil {
		return nil, err
	}
	g.logger.Info("document generated",
		zap.String("kind", string(kind)),
		zap.String("title", title),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}

var _ document.PDFGenerator = (*Generator)(nil)
