package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedInstallment is one entry of a generated schedule
type PlannedInstallment struct {
	Number  int
	Amount  decimal.Decimal
	DueDate time.Time
}

// Schedule is the due date of the whole receivable plus its installments
type Schedule struct {
	FirstDueDate time.Time
	Installments []PlannedInstallment
}

// GenerateSchedule splits total according to term, starting from now.
// Every installment is round(total/N, 2); the rounding remainder is not
// reconciled, so the installments may not sum exactly to total.
func GenerateSchedule(total decimal.Decimal, term PaymentTerm, now time.Time) Schedule {
	n := term.NumberOfInstallments
	if n < 1 {
		n = 1
	}
	dueFirst := now.AddDate(0, 0, term.DaysForFirstInstallment)
	amount := total.Div(decimal.NewFromInt(int64(n))).Round(2)

	installments := make([]PlannedInstallment, n)
	for i := 0; i < n; i++ {
		installments[i] = PlannedInstallment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: dueFirst.AddDate(0, 0, i*term.DaysBetweenInstallments),
		}
	}
	return Schedule{FirstDueDate: dueFirst, Installments: installments}
}
