package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
)

const (
	ValidationErrorType = "validation_failed"
	DecodingErrorType   = "decoding_failed"
	ServiceErrorType    = "service_error"

	// Upper bound for any JSON request body
	MaxBodySize = 16 << 10

	internalErrorMessage = "Internal server error"
)

var validate = newValidator()

type Struct any

type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message,omitempty"`
	Success    bool              `json:"success"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Render data in success envelope with status 200
func JSON(w http.ResponseWriter, data any, message string) {
	JSONWithStatus(w, http.StatusOK, data, message)
}

func JSONWithStatus(w http.ResponseWriter, code int, data any, message string) {
	jsonWithStatus(w, SuccessResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    true,
	}, code)
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, message string, code int) {
	response := ErrorResponse{
		StatusCode: code,
		Error:      ServiceErrorType,
		Message:    message,
	}

	jsonWithStatus(w, response, code)
}

// Render any service error. *apperrors.Error carries its own status and message,
// everything else is reported as internal without details.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	message := appErr.Message
	if message == "" {
		message = internalErrorMessage
	}
	ServiceError(w, message, appErr.Kind.Status())
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Error:      DecodingErrorType,
	}
	code := http.StatusBadRequest

	// Try to provide more specific error message based on error type
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.As(err, &sizeErr):
		code = http.StatusRequestEntityTooLarge
		response.StatusCode = code
		response.Message = fmt.Sprintf("Request body is larger than %d bytes", sizeErr.Limit)
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	jsonWithStatus(w, response, code)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Error:      ValidationErrorType,
		Message:    "Request validation failed",
		Fields:     make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "required_without":
			message = fmt.Sprintf("This field is required when '%s' is empty", fieldError.Param())
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "Invalid email address"
		case "username":
			message = "Only letters, digits, '_', '.' and '-' are allowed"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
