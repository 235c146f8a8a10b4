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

func (suite *TestSuiteStandard) createTestCredit(planningID uuid.UUID, body gin.H) v1.CreditResponse {
	if _, ok := body["planningId"]; !ok {
		body["planningId"] = planningID
	}

	r := test.Request(suite.T(), http.MethodPost, "/v1/credits", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.CreditResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)

	return response
}

func (suite *TestSuiteStandard) TestCreditCreate() {
	planning := suite.createTestPlanning()

	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Car loan",
		"type":           "auto",
		"originalAmount": 1200000,
		"interestRate":   12,
		"termMonths":     12,
		"paymentDay":     15,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	suite.True(created.Data.MonthlyPayment.Equal(decimal.RequireFromString("106618.55")))

	r := test.Request(suite.T(), http.MethodGet, "/v1/credits/"+created.Data.ID.String()+"/schedule", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var schedule v1.InstallmentListResponse
	test.DecodeResponse(suite.T(), &r, &schedule)
	suite.Len(schedule.Data, 12)

	// The new credit shows up in the filtered list
	r = test.Request(suite.T(), http.MethodGet, "/v1/credits?planning="+planning.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.CreditListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Len(list.Data, 1)
}

func (suite *TestSuiteStandard) TestCreditCreateInvalidTerm() {
	planning := suite.createTestPlanning()

	r := test.Request(suite.T(), http.MethodPost, "/v1/credits", gin.H{
		"planningId":     planning.ID,
		"name":           "Broken",
		"type":           "consumer",
		"originalAmount": 1000,
		"interestRate":   10,
		"termMonths":     0,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var count int64
	models.DB.Model(&models.Credit{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestCreditNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "/v1/credits/"+uuid.NewString(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, "/v1/credits/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreditSimulate() {
	planning := suite.createTestPlanning()
	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Mortgage",
		"type":           "mortgage",
		"originalAmount": 1200000,
		"interestRate":   12,
		"termMonths":     12,
		"paymentDay":     15,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	r := test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/simulate", gin.H{
		"extraAmount": 200000,
		"strategy":    "reduce_term",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var simulation v1.SimulationResponse
	test.DecodeResponse(suite.T(), &r, &simulation)
	suite.Require().NotNil(simulation.Data)
	suite.Less(simulation.Data.NewTermMonths, 12)
	suite.True(simulation.Data.InterestSaved.IsPositive())

	// Unknown strategies and oversized extra amounts are rejected
	r = test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/simulate", gin.H{
		"extraAmount": 200000,
		"strategy":    "pay_faster",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/simulate", gin.H{
		"extraAmount": 2000000,
		"strategy":    "reduce_term",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreditExtraPaymentAndRegenerate() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(1000000))

	created := suite.createTestCredit(planning.ID, gin.H{
		"name":           "Consumer",
		"type":           "consumer",
		"originalAmount": 1200,
		"interestRate":   0,
		"termMonths":     12,
		"paymentDay":     15,
		"startDate":      "2024-01-10T00:00:00Z",
	})

	r := test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/extra-payments", gin.H{
		"amount":    300,
		"accountId": account.ID,
		"date":      "2024-02-01T00:00:00Z",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(999700)))

	r = test.Request(suite.T(), http.MethodGet, "/v1/credits/"+created.Data.ID.String()+"/extra-payments", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var extraPayments v1.ExtraPaymentListResponse
	test.DecodeResponse(suite.T(), &r, &extraPayments)
	suite.Len(extraPayments.Data, 1)

	// Regeneration spreads the reduced pending amount over the open rows
	r = test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/regenerate", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var regenerated v1.InstallmentListResponse
	test.DecodeResponse(suite.T(), &r, &regenerated)
	suite.Require().Len(regenerated.Data, 12)
	suite.True(regenerated.Data[0].Amount.Equal(decimal.NewFromInt(75)), "amount is %s", regenerated.Data[0].Amount)

	// A missing accountId is rejected before anything is booked
	r = test.Request(suite.T(), http.MethodPost, "/v1/credits/"+created.Data.ID.String()+"/extra-payments", gin.H{
		"amount": 100,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
