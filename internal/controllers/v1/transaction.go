package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"

	"github.com/moisessepulveda/xplan-backend/internal/httperror"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/ledger"
	"github.com/moisessepulveda/xplan-backend/internal/models"
	xp_uuid "github.com/moisessepulveda/xplan-backend/internal/uuid"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

type TransactionResponse struct {
	Data  *models.Transaction `json:"data"`
	Error *string             `json:"error"`
}

type TransactionListResponse struct {
	Data       []models.Transaction `json:"data"`
	Error      *string              `json:"error"`
	Pagination *Pagination          `json:"pagination"`
}

type TransactionQueryFilter struct {
	AccountID  xp_uuid.UUID           `form:"account"`
	CategoryID xp_uuid.UUID           `form:"category"`
	Type       models.TransactionType `form:"type"`
	FromDate   time.Time              `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`
	UntilDate  time.Time              `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`
	Offset     uint                   `form:"offset"`
	Limit      int                    `form:"limit"`
}

func OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	q := models.DB.
		Model(&models.Transaction{}).
		Order("datetime(transactions.date) DESC, datetime(transactions.created_at) DESC")

	if filter.AccountID != xp_uuid.Nil {
		q = q.Where(
			models.DB.
				Where("transactions.account_id = ?", filter.AccountID.UUID).
				Or("transactions.destination_account_id = ?", filter.AccountID.UUID))
	}

	if filter.CategoryID != xp_uuid.Nil {
		q = q.Where("transactions.category_id = ?", filter.CategoryID.UUID)
	}

	if filter.Type != "" {
		if !slices.Contains([]models.TransactionType{models.TypeIncome, models.TypeExpense, models.TypeTransfer}, filter.Type) {
			e := models.ErrTransactionTypeInvalid.Error()
			c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
			return
		}

		q = q.Where("transactions.type = ?", filter.Type)
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("transactions.date >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("transactions.date < date(?)", filter.UntilDate.AddDate(0, 0, 1))
	}

	// Default to 50 transactions, -1 means all
	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Offset(int(filter.Offset)).Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionListResponse{Error: &e})
		return
	}

	if transactions == nil {
		transactions = make([]models.Transaction, 0)
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: transactions,
		Pagination: &Pagination{
			Count:  len(transactions),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

func CreateTransaction(c *gin.Context) {
	var create ledger.TransactionCreate
	err := httputil.BindData(c, &create)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{Error: &e})
		return
	}

	transaction, err := ledger.Create(models.DB, create)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: &transaction})
}

func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	var update ledger.TransactionUpdate
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{Error: &e})
		return
	}

	transaction, err := ledger.Update(models.DB, uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

func DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err = ledger.Delete(models.DB, uri.ID.UUID)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
