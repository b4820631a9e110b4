package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultLimit  = 20
	defaultOffset = 0
)

type errorResponse struct {
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable,omitempty"`
}

var serviceErrorStatus = map[service.ErrorKind]int{
	service.KindUnauthorized:    http.StatusForbidden,
	service.KindNotFound:        http.StatusNotFound,
	service.KindInvalidArgument: http.StatusBadRequest,
	service.KindConflict:        http.StatusConflict,
}

// writeServiceError answers with the status matching err's kind. Unclassified
// errors are logged and answered with an opaque 500.
func writeServiceError(c echo.Context, logger *slog.Logger, err error) error {
	status, ok := serviceErrorStatus[service.KindOf(err)]
	if !ok {
		logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"user_id", currentUser(c),
			"error", err,
		)
		if e := c.JSON(http.StatusInternalServerError, errorResponse{Reason: "Internal server error"}); e != nil {
			return e
		}

		return nil
	}

	response := errorResponse{Reason: err.Error()}
	if service.IsRetryable(err) {
		response = errorResponse{Reason: service.ErrConcurrentUpdate.Error(), Retryable: true}
	}
	if e := c.JSON(status, response); e != nil {
		return e
	}

	return nil
}

// decode binds and validates input. When it returns false the 400 response
// has already been written.
func decode(c echo.Context, validate *validator.Validate, input any) (bool, error) {
	// an empty body leaves input at its zero value; validation still runs
	req := c.Request()
	if req.Method == http.MethodGet || req.ContentLength != 0 {
		if err := c.Bind(input); err != nil {
			return false, c.JSON(http.StatusBadRequest, errorResponse{Reason: "Input data is not formed correctly"})
		}
	}

	if err := validate.Struct(input); err != nil {
		return false, c.JSON(http.StatusBadRequest, errorResponse{Reason: getAllErrorMessages(err)})
	}

	return true, nil
}

// pathId reads a positive integer path parameter. When it returns false the
// 400 response has already been written.
func pathId(c echo.Context, name string) (int64, bool, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		reason := fmt.Sprintf("'%s': should be a positive integer", name)
		return 0, false, c.JSON(http.StatusBadRequest, errorResponse{Reason: reason})
	}

	return id, true, nil
}

func getAllErrorMessages(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	var builder strings.Builder
	for _, fe := range validationErrors {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return getMessageForNumber(fe)
	}

	if fe.Tag() == "required" {
		return "this field is required"
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	}

	return "incorrect value passed"
}
