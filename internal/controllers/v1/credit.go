package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moisessepulveda/xplan-backend/internal/amortization"
	"github.com/moisessepulveda/xplan-backend/internal/credits"
	"github.com/moisessepulveda/xplan-backend/internal/httperror"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/models"
	xp_uuid "github.com/moisessepulveda/xplan-backend/internal/uuid"
)

// RegisterCreditRoutes registers the routes for credits with the
// RouterGroup that is passed.
func RegisterCreditRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCredits)
		r.GET("", GetCredits)
		r.POST("", CreateCredit)
	}

	// Credit with ID
	{
		r.OPTIONS("/:id", OptionsCreditDetail)
		r.GET("/:id", GetCredit)

		r.OPTIONS("/:id/schedule", httputil.OptionsGet)
		r.GET("/:id/schedule", GetCreditSchedule)

		r.OPTIONS("/:id/regenerate", httputil.OptionsPost)
		r.POST("/:id/regenerate", RegenerateCreditSchedule)

		r.OPTIONS("/:id/extra-payments", httputil.OptionsGetPost)
		r.GET("/:id/extra-payments", GetCreditExtraPayments)
		r.POST("/:id/extra-payments", CreateCreditExtraPayment)

		r.OPTIONS("/:id/simulate", httputil.OptionsPost)
		r.POST("/:id/simulate", SimulateCreditPrepayment)
	}
}

type CreditResponse struct {
	Data  *models.Credit `json:"data"`
	Error *string        `json:"error"`
}

type CreditListResponse struct {
	Data  []models.Credit `json:"data"`
	Error *string         `json:"error"`
}

type InstallmentListResponse struct {
	Data  []models.CreditInstallment `json:"data"`
	Error *string                    `json:"error"`
}

type ExtraPaymentResponse struct {
	Data  *models.ExtraPayment `json:"data"`
	Error *string              `json:"error"`
}

type ExtraPaymentListResponse struct {
	Data  []models.ExtraPayment `json:"data"`
	Error *string               `json:"error"`
}

type SimulationResponse struct {
	Data  *amortization.Simulation `json:"data"`
	Error *string                  `json:"error"`
}

// PaymentEditable is the request body for installment and extra payments.
type PaymentEditable struct {
	Amount    decimal.Decimal `json:"amount" example:"106618.55"`
	AccountID uuid.UUID       `json:"accountId"`
	Date      time.Time       `json:"date"`
}

// SimulationEditable is the request body for prepayment simulations.
type SimulationEditable struct {
	ExtraAmount decimal.Decimal       `json:"extraAmount" example:"500000"`
	Strategy    amortization.Strategy `json:"strategy" example:"reduce_term"`
}

type CreditQueryFilter struct {
	PlanningID xp_uuid.UUID        `form:"planning"`
	Status     models.CreditStatus `form:"status"`
}

func OptionsCredits(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsCreditDetail(c *gin.Context) {
	_, err := loadCredit(c)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGet(c)
}

func GetCredits(c *gin.Context) {
	var filter CreditQueryFilter
	err := c.Bind(&filter)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CreditListResponse{Error: &e})
		return
	}

	q := models.DB.Order("datetime(credits.created_at) DESC")

	if filter.PlanningID != xp_uuid.Nil {
		q = q.Where("credits.planning_id = ?", filter.PlanningID.UUID)
	}

	if filter.Status != "" {
		q = q.Where("credits.status = ?", filter.Status)
	}

	creditList := make([]models.Credit, 0)
	err = q.Find(&creditList).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CreditListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CreditListResponse{Data: creditList})
}

func GetCredit(c *gin.Context) {
	credit, err := loadCredit(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CreditResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CreditResponse{Data: &credit})
}

func CreateCredit(c *gin.Context) {
	var create credits.CreditCreate
	err := httputil.BindData(c, &create)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CreditResponse{Error: &e})
		return
	}

	credit, err := credits.Create(models.DB, create)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), CreditResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, CreditResponse{Data: &credit})
}

// GetCreditSchedule returns the persisted installment rows of the credit,
// payment history included. Revolving credits have no schedule, the list
// is empty for them.
func GetCreditSchedule(c *gin.Context) {
	credit, err := loadCredit(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentListResponse{Error: &e})
		return
	}

	installments, err := credit.Installments(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, InstallmentListResponse{Data: installments})
}

func RegenerateCreditSchedule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, InstallmentListResponse{Error: &e})
		return
	}

	installments, err := credits.RegenerateSchedule(models.DB, uri.ID.UUID, time.Now().In(time.UTC))
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, InstallmentListResponse{Data: installments})
}

func GetCreditExtraPayments(c *gin.Context) {
	credit, err := loadCredit(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExtraPaymentListResponse{Error: &e})
		return
	}

	extraPayments := make([]models.ExtraPayment, 0)
	err = models.DB.
		Where(&models.ExtraPayment{CreditID: credit.ID}).
		Order("datetime(extra_payments.date) ASC").
		Find(&extraPayments).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExtraPaymentListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ExtraPaymentListResponse{Data: extraPayments})
}

func CreateCreditExtraPayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExtraPaymentResponse{Error: &e})
		return
	}

	payment, err := bindPayment(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExtraPaymentResponse{Error: &e})
		return
	}

	extraPayment, err := credits.RegisterExtraPayment(models.DB, uri.ID.UUID, payment.Amount, payment.AccountID, payment.Date, uuid.Nil)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExtraPaymentResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, ExtraPaymentResponse{Data: &extraPayment})
}

func SimulateCreditPrepayment(c *gin.Context) {
	credit, err := loadCredit(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SimulationResponse{Error: &e})
		return
	}

	var editable SimulationEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SimulationResponse{Error: &e})
		return
	}

	simulation, err := credits.SimulatePrepayment(credit, editable.ExtraAmount, editable.Strategy)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SimulationResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, SimulationResponse{Data: &simulation})
}

// loadCredit binds the id URI parameter and loads the credit.
func loadCredit(c *gin.Context) (models.Credit, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Credit{}, err
	}

	var credit models.Credit
	err = models.DB.First(&credit, uri.ID.UUID).Error
	if err != nil {
		return models.Credit{}, err
	}

	return credit, nil
}

// bindPayment binds and validates a payment request body. A zero date
// defaults to the current time.
func bindPayment(c *gin.Context) (PaymentEditable, error) {
	var payment PaymentEditable
	err := httputil.BindData(c, &payment)
	if err != nil {
		return PaymentEditable{}, err
	}

	if payment.Amount.IsZero() {
		return PaymentEditable{}, errAmountNotSet
	}

	if payment.AccountID == uuid.Nil {
		return PaymentEditable{}, errAccountIDNotSet
	}

	if payment.Date.IsZero() {
		payment.Date = time.Now().In(time.UTC)
	}

	return payment, nil
}
