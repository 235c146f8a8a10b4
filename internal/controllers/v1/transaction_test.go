package v1_test

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	v1 "github.com/moisessepulveda/xplan-backend/internal/controllers/v1"
	"github.com/moisessepulveda/xplan-backend/internal/models"
	"github.com/moisessepulveda/xplan-backend/test"
)

func (suite *TestSuiteStandard) accountBalance(id uuid.UUID) decimal.Decimal {
	var account models.Account
	suite.Require().Nil(models.DB.First(&account, id).Error)

	return account.CurrentBalance
}

func (suite *TestSuiteStandard) TestTransactionLifecycle() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(100000))

	r := test.Request(suite.T(), http.MethodPost, "/v1/transactions", gin.H{
		"type":      "expense",
		"accountId": account.ID,
		"amount":    15000,
		"date":      "2024-03-10T00:00:00Z",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Require().NotNil(created.Data)
	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(85000)))

	// Read it back
	r = test.Request(suite.T(), http.MethodGet, "/v1/transactions/"+created.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// Changing the amount moves the balance
	r = test.Request(suite.T(), http.MethodPatch, "/v1/transactions/"+created.Data.ID.String(), gin.H{
		"amount": 20000,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(80000)))

	// Deleting restores the balance
	r = test.Request(suite.T(), http.MethodDelete, "/v1/transactions/"+created.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.True(suite.accountBalance(account.ID).Equal(decimal.NewFromInt(100000)))

	// Deleting again conflicts with the current state
	r = test.Request(suite.T(), http.MethodDelete, "/v1/transactions/"+created.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestTransactionCreateErrors() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(1000))

	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"broken json", http.StatusBadRequest, `{ invalid`},
		{"empty body", http.StatusBadRequest, ""},
		{"invalid type", http.StatusBadRequest, gin.H{"type": "subscription", "accountId": account.ID, "amount": 10, "date": "2024-03-10T00:00:00Z"}},
		{"negative amount", http.StatusBadRequest, gin.H{"type": "income", "accountId": account.ID, "amount": -10, "date": "2024-03-10T00:00:00Z"}},
		{"transfer without destination", http.StatusBadRequest, gin.H{"type": "transfer", "accountId": account.ID, "amount": 10, "date": "2024-03-10T00:00:00Z"}},
		{"missing account", http.StatusNotFound, gin.H{"type": "income", "accountId": uuid.New(), "amount": 10, "date": "2024-03-10T00:00:00Z"}},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), http.MethodPost, "/v1/transactions", tt.body)
		test.AssertHTTPStatus(suite.T(), &r, tt.status)
	}

	// None of the failed requests may have persisted anything
	var count int64
	models.DB.Model(&models.Transaction{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestTransactionGetInvalidID() {
	r := test.Request(suite.T(), http.MethodGet, "/v1/transactions/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, "/v1/transactions/"+uuid.NewString(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionList() {
	planning := suite.createTestPlanning()
	checking := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(100000))
	savings := suite.createTestAccount(planning.ID, "Savings", decimal.NewFromInt(0))
	category := suite.createTestCategory(planning.ID, "Groceries")

	bodies := []gin.H{
		{"type": "expense", "accountId": checking.ID, "categoryId": category.ID, "amount": 100, "date": "2024-03-01T00:00:00Z"},
		{"type": "expense", "accountId": checking.ID, "amount": 200, "date": "2024-03-15T00:00:00Z"},
		{"type": "income", "accountId": checking.ID, "amount": 300, "date": "2024-04-01T00:00:00Z"},
		{"type": "transfer", "accountId": checking.ID, "destinationAccountId": savings.ID, "amount": 400, "date": "2024-04-02T00:00:00Z"},
	}
	for _, body := range bodies {
		r := test.Request(suite.T(), http.MethodPost, "/v1/transactions", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	}

	tests := []struct {
		query string
		count int
	}{
		{"", 4},
		{"?type=expense", 2},
		{"?type=weird", -1}, // invalid type is a bad request
		{"?category=" + category.ID.String(), 1},
		{"?account=" + savings.ID.String(), 1},
		{"?fromDate=2024-04-01", 2},
		{"?untilDate=2024-03-31", 2},
		{"?limit=1", 1},
		{"?offset=3", 1},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), http.MethodGet, "/v1/transactions"+tt.query, "")

		if tt.count < 0 {
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
			continue
		}

		var response v1.TransactionListResponse
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
		test.DecodeResponse(suite.T(), &r, &response)
		suite.Len(response.Data, tt.count, "query %q", tt.query)
	}

	// Pagination reports the full match count
	r := test.Request(suite.T(), http.MethodGet, "/v1/transactions?limit=1", "")
	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Pagination)
	suite.Equal(int64(4), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestTransactionOptions() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(1000))

	r := test.Request(suite.T(), http.MethodOptions, "/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Equal("GET, POST", r.Header().Get("allow"))

	body := gin.H{"type": "income", "accountId": account.ID, "amount": 10, "date": time.Now().UTC().Format(time.RFC3339)}
	created := test.Request(suite.T(), http.MethodPost, "/v1/transactions", body)
	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &created, &response)

	r = test.Request(suite.T(), http.MethodOptions, "/v1/transactions/"+response.Data.ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Equal("GET, PATCH, DELETE", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "/v1/transactions/"+uuid.NewString(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
