// Package healthz reports whether the service can reach its database.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moisessepulveda/xplan-backend/internal/httperror"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/models"
)

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// Get returns 204 when the database answers a ping and 500 otherwise.
func Get(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperror.New(err))
		return
	}

	err = sqlDB.Ping()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}
