package credits

import (
	"github.com/google/uuid"

	"github.com/moisessepulveda/xplan-backend/internal/amortization"
	"github.com/moisessepulveda/xplan-backend/internal/models"
)

// installmentRows converts a computed schedule into persistable rows.
// Numbering continues after offset so regenerated rows slot in behind the
// kept payment history.
func installmentRows(creditID uuid.UUID, schedule []amortization.Installment, offset int) []models.CreditInstallment {
	rows := make([]models.CreditInstallment, 0, len(schedule))

	for _, installment := range schedule {
		rows = append(rows, models.CreditInstallment{
			CreditID:  creditID,
			Number:    offset + installment.Number,
			DueDate:   installment.DueDate,
			Amount:    installment.Amount,
			Principal: installment.Principal,
			Interest:  installment.Interest,
			Status:    models.InstallmentPending,
		})
	}

	return rows
}
