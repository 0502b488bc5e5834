package dto

import (
	"time"

	"shallbuy/internal/entity"
)

type AddressInput struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CreateUserRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Username    string         `json:"username" validate:"required"`
	Password    string         `json:"password" validate:"required"`
	FullName    string         `json:"fullName" validate:"required"`
	CountryCode string         `json:"countryCode" validate:"required"`
	PhoneNumber string         `json:"phoneNumber" validate:"required"`
	Addresses   []AddressInput `json:"addresses" validate:"omitempty,dive"`
	CompanyName string         `json:"companyName" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	ID   string `json:"id" validate:"required,uuid"`
	Code string `json:"code" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UsernameAvailabilityResponse struct {
	IsValid bool `json:"isValid"`
}

type AddressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type MembershipResponse struct {
	SubscriptionID   string    `json:"subscriptionId"`
	RegistrationDate time.Time `json:"registrationDate"`
	ExpiresAt        time.Time `json:"expiresAt"`
	TypeOfCharge     string    `json:"typeOfCharge"`
}

// UserResponse is the safe projection of a user record; the password hash
// and the verification challenge never appear here.
type UserResponse struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	Username      string               `json:"username"`
	FullName      string               `json:"fullName"`
	CountryCode   string               `json:"countryCode"`
	PhoneNumber   string               `json:"phoneNumber"`
	ProfileType   string               `json:"profileType"`
	CompanyName   *string              `json:"companyName,omitempty"`
	EmailVerified bool                 `json:"emailVerified"`
	LastLoginAt   *time.Time           `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Addresses     []AddressResponse    `json:"addresses,omitempty"`
	Subscriptions []MembershipResponse `json:"subscriptions,omitempty"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	response := UserResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Username:      user.Username,
		FullName:      user.FullName,
		CountryCode:   user.CountryCode,
		PhoneNumber:   user.PhoneNumber,
		ProfileType:   string(user.ProfileType),
		CompanyName:   user.CompanyName,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
	for _, address := range user.Addresses {
		response.Addresses = append(response.Addresses, AddressResponse{
			Street:     address.Street,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		})
	}
	for _, membership := range user.Subscriptions {
		response.Subscriptions = append(response.Subscriptions, MembershipResponse{
			SubscriptionID:   membership.SubscriptionID.String(),
			RegistrationDate: membership.RegistrationDate,
			ExpiresAt:        membership.ExpiresAt,
			TypeOfCharge:     string(membership.TypeOfCharge),
		})
	}
	return response
}
