package validator

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

type payoutRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Method string          `json:"payout_method" validate:"required,oneof=bank mobile_money"`
	Note   string          `json:"note" validate:"max=5"`
}

func validPayout() payoutRequest {
	return payoutRequest{Amount: decimal.RequireFromString("12.50"), Method: "bank"}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validPayout()))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	req := validPayout()
	req.Method = ""

	err := Validate(req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["payout_method"])
}

func TestValidate_DecimalComparison(t *testing.T) {
	req := validPayout()
	req.Amount = decimal.Zero

	err := Validate(req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be greater than 0", valErr.Fields()["amount"])
}

func TestValidate_StringLength(t *testing.T) {
	req := validPayout()
	req.Note = "far too long"

	err := Validate(req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 5 characters", valErr.Fields()["note"])
}

func TestValidationError_AppError(t *testing.T) {
	err := Validate(payoutRequest{Amount: decimal.NewFromInt(1)})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	appErr := valErr.AppError()

	assert.True(t, errors.Is(appErr, apperrors.ErrValidation))
	assert.Equal(t, InvalidDataMessage, appErr.Message)
	assert.Equal(t, []string{"The payout method is required."}, appErr.Fields["payout_method"])
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount":"3.00","payout_method":"bank"}`))
	var dst payoutRequest
	require.NoError(t, DecodeAndValidate(r, &dst))
	assert.True(t, dst.Amount.Equal(decimal.NewFromInt(3)))

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{bad json`))
	err := DecodeAndValidate(r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
