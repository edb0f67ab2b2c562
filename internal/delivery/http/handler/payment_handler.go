package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/yuelao-backend/internal/usecase/payment"
)

// maxWebhookBody bounds a webhook delivery.
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	paymentUseCase *payment.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

// Checkout handles POST /payments/checkout
// @Summary Create checkout session
// @Tags payments
// @Produce json
// @Success 200 {object} domain.CheckoutSession
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	session, err := h.paymentUseCase.CreateCheckout(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to create checkout session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// Webhook handles POST /payments/webhook
// @Summary Payment webhook
// @Description Verifies the Stripe-Signature header
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	if err := h.paymentUseCase.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		writeError(c, err, "webhook failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
