package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/pkg/response"
)

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.OK(rec, "Transactions retrieved successfully", []int{1, 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true,"message":"Transactions retrieved successfully","detail":[1,2]}`, rec.Body.String())
}

func TestFailCarriesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, http.StatusBadRequest, "Transaction failed", errors.New("db down"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"message":"Transaction failed","detail":"db down"}`, rec.Body.String())
}

func TestDataAndValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Data(rec, map[string]string{"token": "t"})
	assert.JSONEq(t, `{"ok":true,"data":{"token":"t"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"name": "The name field is required."})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"ok":false,"message":"Validation failed","errors":{"name":"The name field is required."}}`, rec.Body.String())
}
