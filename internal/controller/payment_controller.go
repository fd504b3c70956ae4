package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// Purchase godoc
// @Summary Purchase access to a paid category
// @Description Records a payment and grants 30 days of category access.
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Param categoryId path int true "Category id"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/payments/category/{categoryId}/purchase [post]
func (c *PaymentController) Purchase(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	categoryID := util.MustParseUint(ctx.Param("categoryId"))
	if categoryID == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}

	payment, access, err := c.PaymentService.PurchaseCategory(claims.UserID, categoryID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"payment": payment, "access": access})
}

// History godoc
// @Summary The caller's payment history
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Payment}
// @Router /api/payments [get]
func (c *PaymentController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	payments, err := c.PaymentService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, payments)
}

// Get godoc
// @Summary One payment of the caller
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Payment id"
// @Success 200 {object} util.Response{data=model.Payment}
// @Failure 404 {object} util.Response
// @Router /api/payments/{id} [get]
func (c *PaymentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid payment id")
		return
	}
	payment, err := c.PaymentService.Get(id, claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, payment)
}
