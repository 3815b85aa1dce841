package dto

import (
	"encoding/json"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FuelAccountResponse is the public view of a fuel account. Money is
// rendered as a JSON number with two decimals, straight from the decimal
// value so nothing passes through a binary float.
type FuelAccountResponse struct {
	AccountID   string      `json:"id"`
	Balance     json.Number `json:"balance" swaggertype:"number"`
	CreditLimit json.Number `json:"creditLimit" swaggertype:"number"`
	Status      string      `json:"status"`
}

// UserResponse is the public user snapshot.
type UserResponse struct {
	UserID      string               `json:"id"`
	Email       string               `json:"email"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	FuelAccount *FuelAccountResponse `json:"fuelAccount"`
}

// ProfileResponse is returned by GET /api/auth/me.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// MoneyNumber renders d as an exact JSON number.
func MoneyNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// ToUserResponse converts a domain user to the public snapshot.
func ToUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if acc := user.FuelAccount; acc != nil {
		resp.FuelAccount = &FuelAccountResponse{
			AccountID:   acc.AccountID,
			Balance:     MoneyNumber(acc.Balance),
			CreditLimit: MoneyNumber(acc.CreditLimit),
			Status:      string(acc.Status),
		}
	}
	return resp
}
