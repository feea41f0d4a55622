// controller/entitlement_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ent_errors "github.com/assetops/entitlements/errors"
	"github.com/assetops/entitlements/service"
	"github.com/assetops/entitlements/util"
)

type EntitlementController struct {
	entitlementService service.IEntitlementService
}

func NewEntitlementController(entitlementService service.IEntitlementService) *EntitlementController {
	return &EntitlementController{
		entitlementService: entitlementService,
	}
}

// RegisterRoutes registers the API routes
func (ec *EntitlementController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/entitlement/:serviceTag", ec.GetEntitlement)
	r.POST("/entitlement", ec.GetEntitlementByBody)
	r.GET("/entitlement/:serviceTag/records", ec.GetEntitlementRecords)
	r.GET("/health", ec.HealthCheck)
}

// GetEntitlement endpoint: warranty summary by path parameter
func (ec *EntitlementController) GetEntitlement(c *gin.Context) {
	serviceTag := c.Param("serviceTag")

	summary, err := ec.entitlementService.CheckServiceTag(c, serviceTag)
	if err != nil {
		ec.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// entitlementRequest is the POST body variant of the lookup.
type entitlementRequest struct {
	ServiceTag string `json:"serviceTag" binding:"required"`
}

// GetEntitlementByBody endpoint: warranty summary by JSON body
func (ec *EntitlementController) GetEntitlementByBody(c *gin.Context) {
	var req entitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing serviceTag in request body", ent_errors.ErrMissingServiceTag)
		return
	}

	summary, err := ec.entitlementService.CheckServiceTag(c, req.ServiceTag)
	if err != nil {
		ec.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetEntitlementRecords endpoint: full flattened records for a tag
func (ec *EntitlementController) GetEntitlementRecords(c *gin.Context) {
	serviceTag := c.Param("serviceTag")

	records, err := ec.entitlementService.EntitlementRecords(c, serviceTag)
	if err != nil {
		ec.respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// HealthCheck endpoint
func (ec *EntitlementController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondWithServiceError maps core errors to transport responses: caller
// input errors are 400, upstream rejections 502, transport failures 504,
// anything unexpected 500. The raw error never leaks to the client body.
func (ec *EntitlementController) respondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ent_errors.ErrMissingServiceTag):
		util.RespondWithError(c, http.StatusBadRequest, "Missing service tag", err)
	case ent_errors.IsAuthentication(err):
		util.RespondWithError(c, http.StatusBadGateway, "Upstream authentication failed", err)
	case ent_errors.IsUpstream(err):
		util.RespondWithError(c, http.StatusBadGateway, "Upstream service error", err)
	case ent_errors.IsNetwork(err):
		util.RespondWithError(c, http.StatusGatewayTimeout, "Upstream service unreachable", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entitlement", ent_errors.ErrInternalServer)
	}
}
