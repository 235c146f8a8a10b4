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

func (suite *TestSuiteStandard) createTestBudget(planningID, categoryID uuid.UUID, planned decimal.Decimal) models.Budget {
	budget := models.Budget{PlanningID: planningID, Name: "Monthly", Kind: models.BudgetExpense}
	suite.Require().Nil(models.DB.Create(&budget).Error)

	line := models.BudgetLine{BudgetID: budget.ID, CategoryID: categoryID, Amount: planned}
	suite.Require().Nil(models.DB.Create(&line).Error)

	return budget
}

func (suite *TestSuiteStandard) TestBudgetProgress() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(10000))
	category := suite.createTestCategory(planning.ID, "Food")
	budget := suite.createTestBudget(planning.ID, category.ID, decimal.NewFromInt(500))

	r := test.Request(suite.T(), http.MethodPost, "/v1/transactions", gin.H{
		"type":       "expense",
		"accountId":  account.ID,
		"categoryId": category.ID,
		"amount":     150,
		"date":       "2024-03-12T00:00:00Z",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.T(), http.MethodGet, "/v1/budgets/"+budget.ID.String()+"/progress?month=2024-03", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var progress v1.BudgetProgressResponse
	test.DecodeResponse(suite.T(), &r, &progress)
	suite.Require().NotNil(progress.Data)
	suite.True(progress.Data.TotalSpent.Equal(decimal.NewFromInt(150)))
	suite.Require().Len(progress.Data.Lines, 1)
	suite.Require().NotNil(progress.Data.Lines[0].Percentage)
	suite.True(progress.Data.Lines[0].Percentage.Equal(decimal.NewFromInt(30)))

	// Another month has no spend
	r = test.Request(suite.T(), http.MethodGet, "/v1/budgets/"+budget.ID.String()+"/progress?month=2024-04", "")
	test.DecodeResponse(suite.T(), &r, &progress)
	suite.True(progress.Data.TotalSpent.IsZero())
}

func (suite *TestSuiteStandard) TestBudgetProgressErrors() {
	planning := suite.createTestPlanning()
	category := suite.createTestCategory(planning.ID, "Food")
	budget := suite.createTestBudget(planning.ID, category.ID, decimal.NewFromInt(500))

	tests := []struct {
		url    string
		status int
	}{
		{"/v1/budgets/" + budget.ID.String() + "/progress", http.StatusBadRequest},
		{"/v1/budgets/" + budget.ID.String() + "/progress?month=March", http.StatusBadRequest},
		{"/v1/budgets/" + uuid.NewString() + "/progress?month=2024-03", http.StatusNotFound},
		{"/v1/budgets/not-a-uuid/progress?month=2024-03", http.StatusBadRequest},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), http.MethodGet, tt.url, "")
		test.AssertHTTPStatus(suite.T(), &r, tt.status)
	}
}

func (suite *TestSuiteStandard) TestBudgetClose() {
	planning := suite.createTestPlanning()
	account := suite.createTestAccount(planning.ID, "Checking", decimal.NewFromInt(10000))
	category := suite.createTestCategory(planning.ID, "Food")
	budget := suite.createTestBudget(planning.ID, category.ID, decimal.NewFromInt(500))

	r := test.Request(suite.T(), http.MethodPost, "/v1/transactions", gin.H{
		"type":       "expense",
		"accountId":  account.ID,
		"categoryId": category.ID,
		"amount":     120.50,
		"date":       "2024-03-12T00:00:00Z",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.T(), http.MethodPost, "/v1/budgets/"+budget.ID.String()+"/close?month=2024-03", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var history v1.BudgetHistoryResponse
	test.DecodeResponse(suite.T(), &r, &history)
	suite.Require().NotNil(history.Data)
	suite.True(history.Data.TotalSpent.Equal(decimal.RequireFromString("120.5")))
	suite.NotEmpty(history.Data.LinesSnapshot)
}

func (suite *TestSuiteStandard) TestBudgetList() {
	planning := suite.createTestPlanning()
	category := suite.createTestCategory(planning.ID, "Food")
	suite.createTestBudget(planning.ID, category.ID, decimal.NewFromInt(500))

	r := test.Request(suite.T(), http.MethodGet, "/v1/budgets", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Len(list.Data, 1)

	r = test.Request(suite.T(), http.MethodGet, "/v1/budgets/"+list.Data[0].ID.String(), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}
