package handler

import (
	"encoding/json"
	"net/http"

	"shallbuy/internal/dto"
	"shallbuy/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BillingHandler struct {
	Service  *service.BillingService
	Validate *validator.Validate
}

func NewBillingHandler(svc *service.BillingService, validate *validator.Validate) *BillingHandler {
	return &BillingHandler{Service: svc, Validate: validate}
}

func (h *BillingHandler) Checkout(c echo.Context) error {
	var req dto.CheckoutRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if fieldErrors := collectFieldErrors(h.Validate, req); len(fieldErrors) > 0 {
		return writeValidationError(c, fieldErrors)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	url, err := h.Service.CreateCheckoutSession(c.Request().Context(), req.PriceID, userID, req.Quantity)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

func (h *BillingHandler) Session(c echo.Context) error {
	subscription, err := h.Service.GetSessionSubscription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"subscription": subscription})
}

func (h *BillingHandler) Webhook(c echo.Context) error {
	// Provider events carry envelope fields beyond the ones consumed here.
	var event dto.WebhookEvent
	if err := json.NewDecoder(c.Request().Body).Decode(&event); err != nil {
		return writeError(c, http.StatusBadRequest, "malformed event payload")
	}
	if err := h.Service.HandleWebhookEvent(c.Request().Context(), event); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
