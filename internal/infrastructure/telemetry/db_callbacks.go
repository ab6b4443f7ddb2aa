package telemetry

import (
	"errors"

	"gorm.io/gorm"
)

// gormOperations are the callback chains instrumented by the database plugins.
var gormOperations = []string{"create", "query", "update", "delete", "row", "raw"}

// registerAround hooks before and after every gorm operation chain. The
// callback receives the operation name so one function serves all chains.
// When aheadOf is set (e.g. "otel:after_") the after hook is ordered before
// aheadOf+op, so span annotations land before otelgorm ends the span.
func registerAround(db *gorm.DB, prefix, aheadOf string, before, after func(op string, tx *gorm.DB)) error {
	cb := db.Callback()
	var errs []error
	for _, op := range gormOperations {
		op := op
		gormName := "gorm:" + op
		beforeName, afterName := prefix+":before_"+op, prefix+":after_"+op
		pre := func(tx *gorm.DB) { before(op, tx) }
		post := func(tx *gorm.DB) { after(op, tx) }
		ahead := ""
		if aheadOf != "" {
			ahead = aheadOf + op
		}

		switch op {
		case "create":
			errs = append(errs,
				cb.Create().Before(gormName).Register(beforeName, pre),
				cb.Create().After(gormName).Before(ahead).Register(afterName, post))
		case "query":
			errs = append(errs,
				cb.Query().Before(gormName).Register(beforeName, pre),
				cb.Query().After(gormName).Before(ahead).Register(afterName, post))
		case "update":
			errs = append(errs,
				cb.Update().Before(gormName).Register(beforeName, pre),
				cb.Update().After(gormName).Before(ahead).Register(afterName, post))
		case "delete":
			errs = append(errs,
				cb.Delete().Before(gormName).Register(beforeName, pre),
				cb.Delete().After(gormName).Before(ahead).Register(afterName, post))
		case "row":
			errs = append(errs,
				cb.Row().Before(gormName).Register(beforeName, pre),
				cb.Row().After(gormName).Before(ahead).Register(afterName, post))
		case "raw":
			errs = append(errs,
				cb.Raw().Before(gormName).Register(beforeName, pre),
				cb.Raw().After(gormName).Before(ahead).Register(afterName, post))
		}
	}
	return errors.Join(errs...)
}
