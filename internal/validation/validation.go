// Package validation checks request input before it reaches a store.
//
// Format checks are delegated to go-playground/validator: the built-in
// "url" and "number" tags, plus an "objectid" tag registered here for
// store identifiers.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default page settings used when the query does not carry valid ones.
const (
	DefaultPageSize  = 4
	DefaultPageIndex = 1
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Validator returns the shared validator instance, with "objectid"
// registered.
func Validator() *validator.Validate {
	return validate
}

// IsValidID reports whether id is a syntactically valid identifier.
// It says nothing about whether a record with that id exists.
func IsValidID(id string) bool {
	return validate.Var(id, "required,objectid") == nil
}

// IsURL reports whether s is a well-formed absolute URL.
func IsURL(s string) bool {
	return validate.Var(s, "required,url") == nil
}

// positiveInt parses s as a strictly positive base-10 integer. A single
// leading plus sign is accepted.
func positiveInt(s string) (int, bool) {
	s = strings.TrimPrefix(s, "+")
	if validate.Var(s, "required,number") != nil {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Page turns the raw pageSize/pageIndex query values into a limit and a
// skip. Values that are not positive integers fall back to the defaults.
// A skip too large for an int saturates at math.MaxInt, which still selects
// nothing.
func Page(pageSize, pageIndex string) (limit, skip int) {
	limit = DefaultPageSize
	if n, ok := positiveInt(pageSize); ok {
		limit = n
	}
	index := DefaultPageIndex
	if n, ok := positiveInt(pageIndex); ok {
		index = n
	}
	if index-1 > math.MaxInt/limit {
		return limit, math.MaxInt
	}
	skip = (index - 1) * limit
	return limit, skip
}
