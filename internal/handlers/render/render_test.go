package render

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
)

// Serve single handler and return status and body of the response
func serve(t *testing.T, h http.HandlerFunc, method string, body string) (int, string) {
	t.Helper()

	ts := httptest.NewServer(h)
	defer ts.Close()

	req, err := http.NewRequest(method, ts.URL+"/test", strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	return resp.StatusCode, string(got)
}

func TestRender_JSON(t *testing.T) {
	code, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{"key1": 1, "key2": "222"}
		JSON(w, data, "All good")
	}, http.MethodGet, "")

	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{
		"statusCode": 200,
		"data": {"key1":1,"key2":"222"},
		"message": "All good",
		"success": true
	}`, body)
}

func TestRender_JSONWithStatus(t *testing.T) {
	code, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		JSONWithStatus(w, http.StatusCreated, map[string]string{"id": "1"}, "Created")
	}, http.MethodGet, "")

	require.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"statusCode": 201, "data": {"id": "1"}, "message": "Created", "success": true}`, body)
}

func TestRender_ServiceError(t *testing.T) {
	code, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		message := "something terrible happened"
		ServiceError(w, message, http.StatusForbidden)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{
			"statusCode": 403,
			"error": "service_error",
			"message": "something terrible happened",
			"success": false
		}`,
		body,
	)
}

func TestRender_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		expected string
	}{
		{
			name:     "app error",
			err:      apperrors.Unauthorized("Invalid Access Token", apperrors.ErrTokenInvalid),
			code:     http.StatusUnauthorized,
			expected: `{"statusCode": 401, "error": "service_error", "message": "Invalid Access Token", "success": false}`,
		},
		{
			name:     "wrapped app error",
			err:      errors.Join(errors.New("context"), apperrors.Conflict("User exists", nil)),
			code:     http.StatusConflict,
			expected: `{"statusCode": 409, "error": "service_error", "message": "User exists", "success": false}`,
		},
		{
			name:     "plain error details are hidden",
			err:      errors.New("db error: password authentication failed"),
			code:     http.StatusInternalServerError,
			expected: `{"statusCode": 500, "error": "service_error", "message": "Internal server error", "success": false}`,
		},
		{
			name:     "app error without message",
			err:      apperrors.Internal("", errors.New("boom")),
			code:     http.StatusInternalServerError,
			expected: `{"statusCode": 500, "error": "service_error", "message": "Internal server error", "success": false}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
				Error(w, tc.err)
			}, http.MethodGet, "")

			require.Equal(t, tc.code, code)
			assert.JSONEq(t, tc.expected, body)
		})
	}
}

func TestRender_DecodeError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		value := struct {
			Key      string `json:"key"`
			FullName int    `json:"full_name"`
		}{}

		err := json.NewDecoder(r.Body).Decode(&value)
		require.Error(t, err, "Please check what JSON was sent. Test expected that it is invalid")
		DecodeError(w, err)
	}

	tests := []struct {
		name        string
		requestBody string
		expected    string
	}{
		{
			name:        "json parsing error",
			requestBody: `invalid-json`,
			expected: `{
				"statusCode": 400,
				"error":"decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value",
				"success": false
			}`,
		},
		{
			name:        "invalid type ok",
			requestBody: `{"key": "valid_json", "full_name": "but incorrect type"}`,
			expected: `{
				"statusCode": 400,
				"error": "decoding_failed",
				"message": "Invalid data type for field 'full_name'",
				"success": false
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := serve(t, handler, http.MethodPost, tc.requestBody)

			require.Equal(t, http.StatusBadRequest, code)
			assert.JSONEq(t, tc.expected, body)
		})
	}
}

func TestRender_ValidationErrors(t *testing.T) {
	validate := validator.New()

	type T struct {
		Username string `validate:"required"`
		Password string `validate:"min=6"`
		Email    string `validate:"email"`
		FullName string `validate:"max=3"`
		Other    string `validate:"uuid"`
	}

	code, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		invalidData := T{
			Password: "123",
			Email:    "not-valid-email",
			FullName: "too long",
			Other:    "not-uuid",
		}

		err := validate.Struct(invalidData)
		require.Error(t, err, "test expects that data not pass validation")
		errs, ok := err.(validator.ValidationErrors)
		require.True(t, ok, "be sure you pass structure to validator")
		ValidationErrors(w, errs)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusBadRequest, code)
	expected, err := json.Marshal(ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Error:      "validation_failed",
		Message:    "Request validation failed",
		Fields: map[string]string{
			"Username": "This field is required",         // Message for 'required' tag
			"Password": "Value is too short (minimum 6)", // Message for 'min' validation tag
			"Email":    "Invalid email address",
			"FullName": "Value is too long (maximum 3)",
			"Other":    "Invalid value", // Unknown validation tag failed: default validation error message
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), body)
}

func TestRender_BindAndValidate(t *testing.T) {
	type User struct {
		Username string `json:"username" validate:"required,username"`
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid request",
			requestBody:    `{"username": "John.Doe"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"statusCode": 200, "data": "John.Doe", "message": "ok", "success": true}`,
		},
		{
			name:           "invalid json",
			requestBody:    `invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"statusCode": 400,
				"error": "decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value",
				"success": false
			}`,
		},
		{
			name:           "validation failed",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"statusCode": 400,
				"error": "validation_failed",
				"message": "Request validation failed",
				"success": false,
				"fields": {
					"username": "This field is required"
				}
			}`,
		},
		{
			name:           "custom username rule",
			requestBody:    `{"username": "john doe!"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"statusCode": 400,
				"error": "validation_failed",
				"message": "Request validation failed",
				"success": false,
				"fields": {
					"username": "Only letters, digits, '_', '.' and '-' are allowed"
				}
			}`,
		},
		{
			name:           "body too large",
			requestBody:    `{"username": "` + strings.Repeat("a", MaxBodySize) + `"}`,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody: `{
				"statusCode": 413,
				"error": "decoding_failed",
				"message": "Request body is larger than 16384 bytes",
				"success": false
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
				user, err := BindAndValidate[User](w, r)
				if err != nil {
					return // Error response already written
				}
				JSON(w, user.Username, "ok")
			}, http.MethodPost, tc.requestBody)

			require.Equal(t, tc.expectedStatus, code)
			assert.JSONEq(t, tc.expectedBody, body)
		})
	}
}
