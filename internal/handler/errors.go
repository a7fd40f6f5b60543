package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
)

// failFromService maps a service-layer error onto the response envelope.
// Authorization failures keep their own status so an out-of-scope record
// never masquerades as missing.
func failFromService(c *gin.Context, err error) {
	var validationErr *rules.ValidationError
	if errors.As(err, &validationErr) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{validationErr.Field: validationErr.Message})
		return
	}

	var conflictErr *rules.ConflictError
	if errors.As(err, &conflictErr) {
		code := response.ErrConflict
		if conflictErr.Resource == "attendance" {
			code = response.ErrDuplicateAttendance
		}
		response.Fail(c, http.StatusConflict, code)
		return
	}

	var authErr *rules.AuthorizationError
	if errors.As(err, &authErr) {
		response.Fail(c, http.StatusForbidden, response.ErrOutOfScope)
		return
	}

	var notFoundErr *rules.NotFoundError
	if errors.As(err, &notFoundErr) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
