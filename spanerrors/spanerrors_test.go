package spanerrors_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"net/http"
	"testing"

	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

// Creates a consistent test error for multiple tests
func createTestError() *spanerrors.Error {
	sourceErr := xerrors.New("some source error")

	return spanerrors.NotFoundError.New(
		"widget 7 is gone",
		map[string]interface{}{"key": "value"},
		sourceErr,
	)
}

func verifyError(test *testing.T, spanErr *spanerrors.Error) {
	assert := assert.New(test)

	assert.Equal(spanerrors.NotFoundError, spanErr.ErrorType)
	assert.NotEqual(uuid.Nil, spanErr.ID)
	assert.Equal("widget 7 is gone", spanErr.Message)
	assert.Equal(map[string]interface{}{"key": "value"}, spanErr.ErrorData)
	assert.EqualError(spanErr.Unwrap(), "some source error")
}

func createEngine(test *testing.T) encoding.ContentEngine {
	engine, err := encoding.NewContentEngine(encoding.Options{})
	require.NoError(test, err)
	return engine
}

func TestNewError(test *testing.T) {
	assert := assert.New(test)

	spanErr := createTestError()
	verifyError(test, spanErr)

	assert.Equal("NotFoundError", spanErr.Name())
	assert.Equal(1007, spanErr.APICode())
	assert.Equal(404, spanErr.HTTPCode())

	assert.True(spanErr.IsType(spanerrors.NotFoundError))
	assert.False(spanErr.IsType(spanerrors.RequestValidationError))
	assert.Equal("NotFoundError (1007) - widget 7 is gone", spanErr.Error())
}

func TestErrorIsThroughWrapping(test *testing.T) {
	assert := assert.New(test)

	wrapped := xerrors.Errorf("serializing: %w", createTestError())

	assert.True(xerrors.Is(wrapped, spanerrors.NotFoundError))
	assert.False(xerrors.Is(wrapped, spanerrors.FormatError))

	var spanErr *spanerrors.Error
	assert.True(xerrors.As(wrapped, &spanErr))
	assert.Equal(404, spanerrors.StatusCode(wrapped))
}

func TestStatusCode(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(500, spanerrors.StatusCode(xerrors.New("plain")))
	assert.Equal(500, spanerrors.StatusCode(spanerrors.ServerError.New("x", nil, nil)))
	assert.Equal(501, spanerrors.StatusCode(spanerrors.NotImplementedError.New("x", nil, nil)))
	assert.Equal(
		503,
		spanerrors.StatusCode(spanerrors.ServerError.WithHTTPCode(503).New("x", nil, nil)),
	)
}

func TestPanicError(test *testing.T) {
	assert := assert.New(test)

	panicked := false

	func() {
		defer func() {
			recovered := recover()
			spanErr := recovered.(*spanerrors.Error)

			verifyError(test, spanErr)
			panicked = true
		}()

		spanerrors.NotFoundError.Panic(
			"widget 7 is gone",
			map[string]interface{}{"key": "value"},
			xerrors.New("some source error"),
		)
	}()

	assert.True(panicked)
}

func TestWithHTTPCodeType(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(-1, spanerrors.ServerError.HTTPCode())
	spanErrType := spanerrors.ServerError.WithHTTPCode(500)
	assert.Equal(500, spanErrType.HTTPCode())

	spanErr := spanErrType.Newf(nil, "failed after %d tries", 3)

	assert.Equal("failed after 3 tries", spanErr.Message)
	assert.True(spanErr.IsType(spanerrors.ServerError))
	assert.False(spanErr.IsType(spanerrors.RequestValidationError))
}

func TestLogMessage(test *testing.T) {
	logMessage := createTestError().LogMessage()

	assert.Contains(test, logMessage, "MESSAGE: NotFoundError (1007) - widget 7 is gone")
	assert.Contains(test, logMessage, "ORIGINAL: some source error")
	assert.Contains(test, logMessage, "PANIC STACK:")
	assert.Contains(test, logMessage, "runtime/debug.Stack(")
}

func TestHeadersRoundTrip(test *testing.T) {
	assert := assert.New(test)

	spanErr := createTestError()
	engine := createEngine(test)
	header := make(http.Header)

	require.NoError(test, spanErr.ToHeader(header, engine))

	assert.Equal("NotFoundError", header.Get("error-name"))
	assert.Equal("1007", header.Get("error-code"))
	assert.Equal("widget 7 is gone", header.Get("error-message"))
	assert.Equal(`{"key":"value"}`, header.Get("error-data"))

	loaded, hasErr, err := spanerrors.ErrorFromHeaders(
		header, engine, spanerrors.ErrorTypeCodeIndex,
	)
	require.NoError(test, err)

	assert.True(hasErr)
	assert.Equal(spanErr.Error(), loaded.Error())
	assert.Equal(spanErr.ID, loaded.ID)
	assert.Equal(spanErr.ErrorData, loaded.ErrorData)
}

func TestErrorFromHeadersFailures(test *testing.T) {
	engine := createEngine(test)

	cases := []struct {
		name     string
		headers  map[string]string
		index    map[int]*spanerrors.ErrorType
		hasError bool
		message  string
	}{
		{
			name:    "no error",
			headers: map[string]string{},
			index:   spanerrors.ErrorTypeCodeIndex,
			message: "no error in headers",
		},
		{
			name:    "code not int",
			headers: map[string]string{"error-code": "not an int"},
			index:   spanerrors.ErrorTypeCodeIndex,
			message: "error-code not int",
		},
		{
			name:     "unknown code",
			headers:  map[string]string{"error-code": "9999"},
			index:    spanerrors.ErrorTypeCodeIndex,
			hasError: true,
			message:  "no known error for code 9999",
		},
		{
			name:     "no index",
			headers:  map[string]string{"error-code": "1007"},
			hasError: true,
			message:  "no error index provided",
		},
		{
			name:     "bad id",
			headers:  map[string]string{"error-code": "1007", "error-id": "not a uuid"},
			index:    spanerrors.ErrorTypeCodeIndex,
			hasError: true,
			message:  "error ID is not valid UUID",
		},
		{
			name: "bad data",
			headers: map[string]string{
				"error-code": "1007",
				"error-id":   uuid.NewV4().String(),
				"error-data": "not valid json object",
			},
			index:    spanerrors.ErrorTypeCodeIndex,
			hasError: true,
			message:  "error data could not be parsed as JSON",
		},
	}

	for _, thisCase := range cases {
		test.Run(thisCase.name, func(subTest *testing.T) {
			assert := assert.New(subTest)

			header := make(http.Header)
			for key, value := range thisCase.headers {
				header.Set(key, value)
			}

			spanErr, hasErr, err := spanerrors.ErrorFromHeaders(header, engine, thisCase.index)

			assert.Nil(spanErr)
			assert.Equal(thisCase.hasError, hasErr)
			assert.EqualError(err, thisCase.message)
		})
	}
}

func TestCustomErrorFromHeader(test *testing.T) {
	assert := assert.New(test)

	customErrorType := spanerrors.NewErrorType("CustomError", 2001, 400)

	customIndex := make(map[int]*spanerrors.ErrorType)
	for key, value := range spanerrors.ErrorTypeCodeIndex {
		customIndex[key] = value
	}
	customIndex[customErrorType.APICode()] = customErrorType

	header := make(http.Header)
	header.Set("error-code", "2001")
	header.Set("error-id", uuid.NewV4().String())

	spanErr, hasErr, err := spanerrors.ErrorFromHeaders(header, createEngine(test), customIndex)

	assert.NoError(err)
	assert.True(hasErr)
	assert.True(spanErr.IsType(customErrorType))
}
