package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moisessepulveda/xplan-backend/internal/credits"
	"github.com/moisessepulveda/xplan-backend/internal/httperror"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/models"
)

// RegisterInstallmentRoutes registers the routes for credit installments
// with the RouterGroup that is passed.
func RegisterInstallmentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsInstallmentDetail)
	r.GET("/:id", GetInstallment)

	r.OPTIONS("/:id/pay", httputil.OptionsPost)
	r.POST("/:id/pay", PayInstallment)
}

type InstallmentResponse struct {
	Data  *models.CreditInstallment `json:"data"`
	Error *string                   `json:"error"`
}

func OptionsInstallmentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err = models.DB.First(&models.CreditInstallment{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGet(c)
}

func GetInstallment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, InstallmentResponse{Error: &e})
		return
	}

	var installment models.CreditInstallment
	err = models.DB.First(&installment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, InstallmentResponse{Data: &installment})
}

// PayInstallment books a payment against the installment. The payment is
// withdrawn from the account in the request body.
func PayInstallment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, InstallmentResponse{Error: &e})
		return
	}

	payment, err := bindPayment(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentResponse{Error: &e})
		return
	}

	installment, err := credits.PayInstallment(models.DB, uri.ID.UUID, payment.Amount, payment.AccountID, payment.Date, uuid.Nil)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), InstallmentResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, InstallmentResponse{Data: &installment})
}
