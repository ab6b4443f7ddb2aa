// Package printing renders quotes, work orders and delivery protocols to PDF.
//
// Documents are produced in two steps: a TemplateEngine binds the view model
// built by the document service to one of the embedded html/template layouts,
// and a PDFRenderer (headless Chrome through chromedp) prints the HTML.
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	gen, err := NewGenerator(NewTemplateEngine(), renderer, logger)
//	if err != nil {
//	    return err
//	}
//	pdf, err := gen.Generate(ctx, document.KindQuote, "Orçamento 1a2b3c4d", view)
package printing
