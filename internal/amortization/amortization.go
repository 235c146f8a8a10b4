// Package amortization implements the French (constant payment) method for
// credit installment schedules and prepayment simulations.
//
// All functions are pure: they never touch storage and never mutate their
// inputs. Intermediate values keep the full decimal precision, monetary
// results are rounded to two digits only where they would be persisted or
// paid.
package amortization

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moisessepulveda/xplan-backend/internal/types"
)

var (
	ErrTermInvalid          = errors.New("the term must be at least one month")
	ErrPrincipalNotPositive = errors.New("the principal must be larger than zero")
	ErrRateNegative         = errors.New("the interest rate must not be negative")
	ErrExtraAmountInvalid   = errors.New("the extra amount must be positive and below the pending amount")
	ErrPaymentTooLow        = errors.New("the monthly payment does not cover the monthly interest")
	ErrStrategyInvalid      = errors.New(`the strategy must be "reduce_term" or "reduce_payment"`)
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Installment is one row of an amortization schedule.
type Installment struct {
	Number    int             `json:"number"` // 1-based
	DueDate   time.Time       `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"` // remaining principal after the payment
}

// MonthlyRate converts an annual rate in percent to a monthly decimal rate.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.Div(hundred).Div(twelve)
}

// MonthlyPayment computes the constant payment that amortizes the principal
// over the term at the given monthly rate: P * r / (1 - (1+r)^-n).
// A zero rate degrades to an even split of the principal.
//
// The result is not rounded, round it where it is persisted or paid.
func MonthlyPayment(principal, monthlyRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths < 1 {
		return decimal.Zero, ErrTermInvalid
	}
	if principal.IsNegative() {
		return decimal.Zero, ErrPrincipalNotPositive
	}
	if monthlyRate.IsNegative() {
		return decimal.Zero, ErrRateNegative
	}

	term := decimal.NewFromInt(int64(termMonths))
	if monthlyRate.IsZero() {
		return principal.Div(term), nil
	}

	// P * r / (1 - (1+r)^-n), computed as P * r * (1+r)^n / ((1+r)^n - 1)
	// to keep the exponent integral
	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(term)
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))), nil
}

// Schedule generates the full installment sequence for a credit.
//
// Due dates advance one month per installment from the start date, pinned
// to the payment day and clamped to the last day of short months. The
// final installment absorbs the rounding drift of all earlier rows so the
// principal column sums exactly to the input principal.
func Schedule(principal, annualPercent decimal.Decimal, termMonths int, startDate time.Time, paymentDay int) ([]Installment, error) {
	if !principal.IsPositive() {
		return nil, ErrPrincipalNotPositive
	}

	rate := MonthlyRate(annualPercent)
	payment, err := MonthlyPayment(principal, rate, termMonths)
	if err != nil {
		return nil, err
	}
	payment = payment.Round(2)

	installments := make([]Installment, 0, termMonths)
	remaining := principal
	start := types.MonthOf(startDate.In(time.UTC))

	for number := 1; number <= termMonths; number++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)

		// Residual adjustment: the last row clears the balance exactly
		if number == termMonths {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)

		installments = append(installments, Installment{
			Number:    number,
			DueDate:   start.AddDate(0, number).Day(paymentDay),
			Amount:    principalPart.Add(interest),
			Principal: principalPart,
			Interest:  interest,
			Balance:   remaining,
		})
	}

	return installments, nil
}

// Strategy selects how an extra payment is traded off.
type Strategy string

const (
	// ReduceTerm keeps the monthly payment and shortens the schedule.
	ReduceTerm Strategy = "reduce_term"
	// ReducePayment keeps the term and lowers the monthly payment.
	ReducePayment Strategy = "reduce_payment"
)

// Simulation is the outcome of a prepayment simulation.
//
// NewTermMonths is set for the reduce_term strategy, NewMonthlyPayment for
// reduce_payment. InterestSaved compares against continuing the original
// schedule for the same pending balance.
type Simulation struct {
	Strategy          Strategy        `json:"strategy"`
	MonthlyPayment    decimal.Decimal `json:"monthlyPayment"` // payment before the extra payment
	NewTermMonths     int             `json:"newTermMonths,omitempty"`
	NewMonthlyPayment decimal.Decimal `json:"newMonthlyPayment,omitempty"`
	InterestSaved     decimal.Decimal `json:"interestSaved"`
}

// SimulatePrepayment computes the effect of paying extraAmount against the
// pending balance under the given strategy. It is a pure computation, the
// caller decides whether to materialize anything.
func SimulatePrepayment(pendingAmount, annualPercent decimal.Decimal, remainingMonths int, extraAmount decimal.Decimal, strategy Strategy) (Simulation, error) {
	if remainingMonths < 1 {
		return Simulation{}, ErrTermInvalid
	}
	if !pendingAmount.IsPositive() {
		return Simulation{}, ErrPrincipalNotPositive
	}
	if !extraAmount.IsPositive() || extraAmount.GreaterThanOrEqual(pendingAmount) {
		return Simulation{}, ErrExtraAmountInvalid
	}

	rate := MonthlyRate(annualPercent)
	payment, err := MonthlyPayment(pendingAmount, rate, remainingMonths)
	if err != nil {
		return Simulation{}, err
	}

	// Interest of the unchanged schedule: n equal payments minus principal
	months := decimal.NewFromInt(int64(remainingMonths))
	originalInterest := payment.Mul(months).Sub(pendingAmount)

	reduced := pendingAmount.Sub(extraAmount)

	switch strategy {
	case ReduceTerm:
		newTerm, newInterest, err := amortizeFixedPayment(reduced, rate, payment)
		if err != nil {
			return Simulation{}, err
		}

		return Simulation{
			Strategy:       ReduceTerm,
			MonthlyPayment: payment.Round(2),
			NewTermMonths:  newTerm,
			InterestSaved:  originalInterest.Sub(newInterest).Round(2),
		}, nil

	case ReducePayment:
		newPayment, err := MonthlyPayment(reduced, rate, remainingMonths)
		if err != nil {
			return Simulation{}, err
		}

		newInterest := newPayment.Mul(months).Sub(reduced)

		return Simulation{
			Strategy:          ReducePayment,
			MonthlyPayment:    payment.Round(2),
			NewMonthlyPayment: newPayment.Round(2),
			InterestSaved:     originalInterest.Sub(newInterest).Round(2),
		}, nil
	}

	return Simulation{}, ErrStrategyInvalid
}

// amortizeFixedPayment runs the balance down month by month with a fixed
// payment and returns how many months it takes and the interest paid. The
// final payment is partial.
func amortizeFixedPayment(balance, rate, payment decimal.Decimal) (months int, interest decimal.Decimal, err error) {
	if rate.IsZero() {
		// ceil(balance / payment) months, no interest
		full := balance.Div(payment).Ceil()
		return int(full.IntPart()), decimal.Zero, nil
	}

	if payment.LessThanOrEqual(balance.Mul(rate)) {
		return 0, decimal.Zero, ErrPaymentTooLow
	}

	interest = decimal.Zero
	for balance.IsPositive() {
		months++

		monthInterest := balance.Mul(rate)
		interest = interest.Add(monthInterest)
		balance = balance.Add(monthInterest).Sub(payment)
	}

	return months, interest, nil
}
