// controller/controllers.go
package controller

import (
	"github.com/assetops/entitlements/service"
)

type Controllers struct {
	Entitlement *EntitlementController
}

func InitializeControllers(entitlementService service.IEntitlementService) *Controllers {
	return &Controllers{
		Entitlement: NewEntitlementController(entitlementService),
	}
}
