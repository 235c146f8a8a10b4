package models

import (
	"errors"
	"fmt"
)

// Base error kinds. Every error the core returns wraps exactly one of
// these so that callers can classify failures with errors.Is.
var (
	ErrValidation       = errors.New("the request is invalid")
	ErrResourceNotFound = errors.New("there is no")
	ErrStateConflict    = errors.New("the operation is not allowed in the current state")
	ErrGeneral          = errors.New("an error occurred on the server during your request")
)

// Transaction errors.
var (
	ErrAmountNotPositive        = fmt.Errorf("%w: transaction amounts must be larger than zero", ErrValidation)
	ErrTransactionTypeInvalid   = fmt.Errorf("%w: the transaction type must be income, expense or transfer", ErrValidation)
	ErrTransferNeedsDestination = fmt.Errorf("%w: transfers need a destination account", ErrValidation)
	ErrDestinationNotAllowed    = fmt.Errorf("%w: only transfers can have a destination account", ErrValidation)
	ErrSourceEqualsDestination  = fmt.Errorf("%w: transfers need different source and destination accounts", ErrValidation)
	ErrTransactionDeleted       = fmt.Errorf("%w: the transaction is already deleted", ErrStateConflict)
)

// Account and category errors.
var (
	ErrAccountNotFound  = fmt.Errorf("%w account matching your query", ErrResourceNotFound)
	ErrAccountNameEmpty = fmt.Errorf("%w: the account name must not be empty", ErrValidation)
)

// Credit errors.
var (
	ErrCreditNotActive          = fmt.Errorf("%w: the credit is not active", ErrStateConflict)
	ErrInstallmentAlreadyPaid   = fmt.Errorf("%w: the installment is already paid", ErrStateConflict)
	ErrPaymentAmountNotPositive = fmt.Errorf("%w: payment amounts must be larger than zero", ErrValidation)
)
