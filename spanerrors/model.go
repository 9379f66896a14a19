package spanerrors

import (
	"fmt"
	"runtime/debug"
	"strconv"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
)

/*
ErrorType defines a TYPE of error that CAN be returned by a service.

Each ErrorType for a given ecosystem should have a unique Name and APICode.

Codes 1000-1999 are reserved for the default error definitions.

Since types are declared as pointers, to protect against accidental mutation of the
error type by other packages, the underlying fields of this struct are private and
accessed through functions. Define new error types using NewErrorType()
*/
type ErrorType struct {
	// Unique human-readable name of the error type for the API ecosystem.
	name string

	// Unique number to identify the error type in the API ecosystem.
	apiCode int

	// HTTP code that should be returned when this error type is returned. Set to -1
	// if the http error is determined dynamically.
	httpCode int
}

// NewErrorType returns an error type definition. Each definition should only need to
// be declared once in a shared library.
func NewErrorType(name string, apiCode int, httpCode int) *ErrorType {
	return &ErrorType{
		name:     name,
		apiCode:  apiCode,
		httpCode: httpCode,
	}
}

// New returns a new error instance of this type.
func (errorType *ErrorType) New(
	message string,
	errorData map[string]interface{},
	source error,
) *Error {
	return &Error{
		ErrorType:   errorType,
		Message:     message,
		ID:          uuid.NewV4(),
		ErrorData:   errorData,
		sourceErr:   source,
		sourceStack: debug.Stack(),
		frame:       xerrors.Caller(1),
	}
}

// Newf is New with a formatted message and no error data.
func (errorType *ErrorType) Newf(source error, format string, args ...interface{}) *Error {
	return errorType.New(fmt.Sprintf(format, args...), nil, source)
}

/*
Panic creates a new error that is immediately passed to a panic. Only precondition
violations (programming errors) should be raised this way, the serialization core never
recovers them.
*/
func (errorType *ErrorType) Panic(
	message string,
	errorData map[string]interface{},
	source error,
) {
	panic(errorType.New(message, errorData, source))
}

// Name is the unique human-readable name of the error type.
func (errorType *ErrorType) Name() string {
	return errorType.name
}

// APICode is the unique number identifying the error type.
func (errorType *ErrorType) APICode() int {
	return errorType.apiCode
}

// HTTPCode that should be returned for this error type, -1 when dynamic.
func (errorType *ErrorType) HTTPCode() int {
	return errorType.httpCode
}

// WithHTTPCode returns a copy of the error type with the given http code replaced.
func (errorType *ErrorType) WithHTTPCode(newHTTPCode int) *ErrorType {
	return &ErrorType{
		name:     errorType.name,
		apiCode:  errorType.apiCode,
		httpCode: newHTTPCode,
	}
}

// Allows the error type definition itself to also be a valid error for things like
// testing error equality.
func (errorType *ErrorType) Error() string {
	return errorType.name + " (" + strconv.Itoa(errorType.apiCode) + ")"
}

// Error is a specific error instance.
type Error struct {
	// The type of error we are returning.
	*ErrorType

	// A message detailing what caused the error.
	Message string

	// An id for the error being returned.
	ID uuid.UUID

	// A string / any mapping of data related to the error.
	ErrorData map[string]interface{}

	sourceErr   error
	sourceStack []byte
	frame       xerrors.Frame
}

// IsType returns true if the underlying type of this error is the same as errorType.
// Some errors may have multiple http codes, so ErrorType pointers are not compared
// directly.
func (spanError *Error) IsType(errorType *ErrorType) bool {
	return spanError.ErrorType.Error() == errorType.Error()
}

// Is lets xerrors.Is match an error instance against its *ErrorType.
func (spanError *Error) Is(target error) bool {
	errorType, ok := target.(*ErrorType)
	if !ok {
		return false
	}
	return spanError.IsType(errorType)
}

func (spanError *Error) Error() string {
	return spanError.ErrorType.Error() + " - " + spanError.Message
}

// Unwrap returns the source error.
func (spanError *Error) Unwrap() error {
	return spanError.sourceErr
}

// FormatError implements xerrors.Formatter so %+v prints the creation frame.
func (spanError *Error) FormatError(printer xerrors.Printer) error {
	printer.Print(spanError.Error())
	spanError.frame.Format(printer)
	return spanError.sourceErr
}

// LogMessage is a more verbose error message that includes the stack and source error.
// This is not part of Error() since it may contain information that should not be
// returned to the client.
func (spanError *Error) LogMessage() string {
	return fmt.Sprint(
		"\nMESSAGE: ",
		spanError.Error(),
		"\nORIGINAL: ",
		spanError.sourceErr,
		"\nPANIC STACK:\n",
		string(spanError.sourceStack),
	)
}

// StatusCode returns the HTTP status to answer with for err. Errors that do not carry
// an ErrorType, or carry a dynamic one, map to 500.
func StatusCode(err error) int {
	var spanError *Error
	if !xerrors.As(err, &spanError) || spanError.HTTPCode() < 0 {
		return 500
	}
	return spanError.HTTPCode()
}
