package handler

import (
	"net/http"

	"shallbuy/internal/dto"
	"shallbuy/internal/entity"
	"shallbuy/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Service  *service.UserService
	Validate *validator.Validate
}

func NewUserHandler(svc *service.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{Service: svc, Validate: validate}
}

func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	fieldErrors := collectFieldErrors(h.Validate, req)
	fieldErrors = append(fieldErrors, passwordRuleViolations(req.Password)...)
	if req.CompanyName == "" && len(req.Addresses) == 0 {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "addresses",
			Message: "At least one address is required",
		})
	}
	if len(fieldErrors) > 0 {
		return writeValidationError(c, fieldErrors)
	}

	addresses := make([]entity.Address, 0, len(req.Addresses))
	for _, address := range req.Addresses {
		addresses = append(addresses, entity.Address{
			Street:     address.Street,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		})
	}

	input := service.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		CountryCode: req.CountryCode,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		Addresses:   addresses,
	}
	user, err := h.Service.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if fieldErrors := collectFieldErrors(h.Validate, req); len(fieldErrors) > 0 {
		return writeValidationError(c, fieldErrors)
	}

	result, err := h.Service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token: result.Token,
		User:  dto.UserResponseFromEntity(result.User),
	})
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	var req dto.VerifyEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if fieldErrors := collectFieldErrors(h.Validate, req); len(fieldErrors) > 0 {
		return writeValidationError(c, fieldErrors)
	}

	userID, err := uuid.Parse(req.ID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	user, err := h.Service.VerifyEmail(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) ValidateUsername(c echo.Context) error {
	available, err := h.Service.CheckUsernameAvailable(c.Request().Context(), c.Param("username"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UsernameAvailabilityResponse{IsValid: available})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	user, err := h.Service.GetUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	user, err := h.Service.DeleteUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}
