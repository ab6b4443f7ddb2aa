package printing

import (
	"embed"
	"fmt"

	"github.com/printshop/backend/internal/application/document"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate describes one built-in layout
type DefaultTemplate struct {
	Kind      document.Kind
	Name      string
	PaperSize PaperSize
	Landscape bool
	Margins   Margins
	FilePath  string // path within templateFS
	// FooterHTML is printed on every page by Chrome
	FooterHTML string
}

const pageNumberFooter = `<div style="font-size:8px;width:100%;text-align:right;padding-right:10mm;">` +
	`<span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// GetDefaultTemplates returns every built-in layout
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			Kind:       document.KindQuote,
			Name:       "Orçamento A4",
			PaperSize:  PaperSizeA4,
			Margins:    DefaultMargins(),
			FilePath:   "templates/quote.html",
			FooterHTML: pageNumberFooter,
		},
		{
			Kind:      document.KindWorkOrder,
			Name:      "Ordem de Produção A4",
			PaperSize: PaperSizeA4,
			Margins:   DefaultMargins(),
			FilePath:  "templates/work_order.html",
		},
		{
			Kind:      document.KindDeliveryProtocol,
			Name:      "Protocolo de Entrega A5",
			PaperSize: PaperSizeA5,
			Landscape: true,
			Margins:   Margins{Top: 8, Right: 8, Bottom: 8, Left: 8},
			FilePath:  "templates/delivery_protocol.html",
		},
	}
}

// LoadTemplateContent reads a layout from the embedded filesystem
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", filePath, err)
	}
	return string(content), nil
}
