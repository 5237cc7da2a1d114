package api

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"summercamp-backend-go/internal/db"
)

// RegisterValidators installs the "docid" binding tag, which accepts only
// identifiers that are well-formed for store.
func RegisterValidators(store db.DocumentStore) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
		return store.ValidID(fl.Field().String())
	})
}
