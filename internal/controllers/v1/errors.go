package v1

import (
	"fmt"

	"github.com/moisessepulveda/xplan-backend/internal/models"
)

var (
	errMonthNotSetInQuery = fmt.Errorf("%w: the month query parameter must be set", models.ErrValidation)
	errMonthInvalid       = fmt.Errorf("%w: the month query parameter must be in YYYY-MM format", models.ErrValidation)
	errAmountNotSet       = fmt.Errorf("%w: the amount must be set", models.ErrValidation)
	errAccountIDNotSet    = fmt.Errorf("%w: the accountId must be set", models.ErrValidation)
)
