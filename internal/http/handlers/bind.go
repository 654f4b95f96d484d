package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds and validates the request body. On validation failure it
// responds 400 with missingMsg (the endpoint's canonical required-fields
// message); on malformed JSON it responds 400 with a generic message.
func BindJSON(ctx *gin.Context, out interface{}, missingMsg string) bool {
	err := ctx.ShouldBindJSON(out)

	if err == nil {
		return true
	}

	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		RespondBadRequest(ctx, missingMsg)
		return false
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		RespondBadRequest(ctx, "Invalid request body")
		return false
	}

	// unparseable field values (e.g. a malformed amount) land here
	RespondBadRequest(ctx, missingMsg)
	return false
}
