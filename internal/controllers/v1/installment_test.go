package v1_test

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	v1 "github.com/moisessepulveda/xplan-backend/internal/controllers/v1"
	"github.com/moisessepulveda/xplan-backend/internal/models"
	"github.com/moisessepulveda/xplan-backend/test"
)

func (suite *TestSuiteStandard) TestInstallmentPay() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(10000))

	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Consumer",
		"type":           "consumer",
		"originalAmount": 1200,
		"interestRate":   0,
		"termMonths":     12,
		"paymentDay":     15,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	r := test.Request(suite.T(), http.MethodGet, "/v1/credits/"+created.Data.ID.String()+"/schedule", "")
	var schedule v1.InstallmentListResponse
	test.DecodeResponse(suite.T(), &r, &schedule)
	suite.Require().Len(schedule.Data, 12)

	first := schedule.Data[0]

	r = test.Request(suite.T(), http.MethodPost, "/v1/installments/"+first.ID.String()+"/pay", gin.H{
		"amount":    100,
		"accountId": account.ID,
		"date":      "2024-02-15T00:00:00Z",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var paid v1.InstallmentResponse
	test.DecodeResponse(suite.T(), &r, &paid)
	suite.Equal(models.InstallmentPaid, paid.Data.Status)
	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(9900)))

	// The payment is booked to the reserved credit payments category
	category, err := models.CreditPaymentsCategory(models.DB, planning.ID)
	suite.Require().Nil(err)

	var transaction models.Transaction
	suite.Require().Nil(models.DB.First(&transaction, paid.Data.TransactionID).Error)
	suite.Equal(category.ID, *transaction.CategoryID)

	// Paying a settled installment conflicts
	r = test.Request(suite.T(), http.MethodPost, "/v1/installments/"+first.ID.String()+"/pay", gin.H{
		"amount":    100,
		"accountId": account.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestInstallmentPayErrors() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(10000))

	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Consumer",
		"type":           "consumer",
		"originalAmount": 1200,
		"interestRate":   0,
		"termMonths":     12,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	r := test.Request(suite.T(), http.MethodGet, "/v1/credits/"+created.Data.ID.String()+"/schedule", "")
	var schedule v1.InstallmentListResponse
	test.DecodeResponse(suite.T(), &r, &schedule)
	first := schedule.Data[0]

	tests := []struct {
		name   string
		url    string
		status int
		body   gin.H
	}{
		{"missing amount", "/v1/installments/" + first.ID.String() + "/pay", http.StatusBadRequest, gin.H{"accountId": account.ID}},
		{"missing account", "/v1/installments/" + first.ID.String() + "/pay", http.StatusBadRequest, gin.H{"amount": 100}},
		{"unknown account", "/v1/installments/" + first.ID.String() + "/pay", http.StatusNotFound, gin.H{"amount": 100, "accountId": uuid.New()}},
		{"unknown installment", "/v1/installments/" + uuid.NewString() + "/pay", http.StatusNotFound, gin.H{"amount": 100, "accountId": account.ID}},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), http.MethodPost, tt.url, tt.body)
		test.AssertHTTPStatus(suite.T(), &r, tt.status)
	}

	// Failed payments must not move the balance
	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(10000)))
}

func (suite *TestSuiteStandard) TestInstallmentGet() {
	planning := suite.createTestPlanning()

	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Consumer",
		"type":           "consumer",
		"originalAmount": 1200,
		"interestRate":   0,
		"termMonths":     12,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	r := test.Request(suite.T(), http.MethodGet, "/v1/credits/"+created.Data.ID.String()+"/schedule", "")
	var schedule v1.InstallmentListResponse
	test.DecodeResponse(suite.T(), &r, &schedule)

	r = test.Request(suite.T(), http.MethodGet, "/v1/installments/"+schedule.Data[0].ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var installment v1.InstallmentResponse
	test.DecodeResponse(suite.T(), &r, &installment)
	suite.Equal(1, installment.Data.Number)
	suite.Equal(models.InstallmentPending, installment.Data.Status)
}
