package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName: "רועי",
		LastName:  "כהן",
		Email:     "roy4552@test.com",
		Password:  "Pass123",
		Role:      "student",
		IDNumber:  "85456521",
	}
}

func TestRegisterRequestAcceptsEightAndNineDigitIDs(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	payload := validRegisterRequest()
	require.NoError(t, validate.Struct(payload), "eight digit id numbers are valid")

	payload.IDNumber = "854565219"
	require.NoError(t, validate.Struct(payload), "nine digit id numbers are valid")
}

func TestRegisterRequestRejectsMalformedIDs(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	payload := validRegisterRequest()
	payload.IDNumber = "1234567"
	require.Error(t, validate.Struct(payload), "seven digits are too short")

	payload.IDNumber = "8545652189"
	require.Error(t, validate.Struct(payload), "ten digits are too long")

	payload.IDNumber = "85456a21"
	require.Error(t, validate.Struct(payload), "letters are not allowed")
}

func TestValidPasswordPolicy(t *testing.T) {
	require.True(t, ValidPassword("Pass123"))
	require.False(t, ValidPassword("pass123"), "needs an uppercase letter")
	require.False(t, ValidPassword("PASS123"), "needs a lowercase letter")
	require.False(t, ValidPassword("Pa1"), "needs six characters")
}
