package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moisessepulveda/xplan-backend/internal/budgets"
	"github.com/moisessepulveda/xplan-backend/internal/httperror"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/models"
	"github.com/moisessepulveda/xplan-backend/internal/types"
)

// RegisterBudgetRoutes registers the routes for budgets with the
// RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgets)
		r.GET("", GetBudgets)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)

		r.OPTIONS("/:id/progress", httputil.OptionsGet)
		r.GET("/:id/progress", GetBudgetProgress)

		r.OPTIONS("/:id/close", httputil.OptionsPost)
		r.POST("/:id/close", CloseBudgetMonth)
	}
}

type BudgetResponse struct {
	Data  *models.Budget `json:"data"`
	Error *string        `json:"error"`
}

type BudgetListResponse struct {
	Data  []models.Budget `json:"data"`
	Error *string         `json:"error"`
}

type BudgetProgressResponse struct {
	Data  *budgets.Progress `json:"data"`
	Error *string           `json:"error"`
}

type BudgetHistoryResponse struct {
	Data  *models.BudgetHistory `json:"data"`
	Error *string               `json:"error"`
}

func OptionsBudgets(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGet(c)
}

func GetBudgets(c *gin.Context) {
	budgetList := make([]models.Budget, 0)
	err := models.DB.Order("datetime(budgets.created_at) DESC").Find(&budgetList).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: budgetList})
}

func GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &e})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &budget})
}

func GetBudgetProgress(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetProgressResponse{Error: &e})
		return
	}

	month, err := bindMonth(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetProgressResponse{Error: &e})
		return
	}

	progress, err := budgets.Calculate(models.DB, uri.ID.UUID, month)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetProgressResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetProgressResponse{Data: &progress})
}

// CloseBudgetMonth snapshots the progress of the month into the budget's
// history.
func CloseBudgetMonth(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetHistoryResponse{Error: &e})
		return
	}

	month, err := bindMonth(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetHistoryResponse{Error: &e})
		return
	}

	history, err := budgets.Close(models.DB, uri.ID.UUID, month, time.Now().In(time.UTC))
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), BudgetHistoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, BudgetHistoryResponse{Data: &history})
}

// bindMonth parses the mandatory month query parameter.
func bindMonth(c *gin.Context) (types.Month, error) {
	var query QueryMonth
	err := c.ShouldBindQuery(&query)
	if err != nil {
		return types.Month{}, errMonthInvalid
	}

	if query.Month.IsZero() {
		return types.Month{}, errMonthNotSetInQuery
	}

	return types.MonthOf(query.Month), nil
}
