package spanerrors

// Base Error. Used when generic error is returned by route handler.
var APIError = NewErrorType("APIError", 1000, 502)

// Route does not implement HTTP method (GET, POST, PUT, etc.)
var InvalidMethodError = NewErrorType("InvalidMethodError", 1001, 405)

// No media to return.
var NothingToReturnError = NewErrorType("NothingToReturnError", 1002, 400)

// Error Occurred when Reading / validating Request Data.
var RequestValidationError = NewErrorType("RequestValidationError", 1003, 400)

// Request Exceeds API limit.
var APILimitError = NewErrorType("APILimitError", 1004, 400)

// Error occurred when writing Response.
var ResponseValidationError = NewErrorType("ResponseValidationError", 1005, 400)

// Sent back when the server raises an error that is not an *Error.
// This type SHOULD NOT be invoked by app logic.
var ServerError = NewErrorType("ServerError", 1006, -1)

// The entity to serialize does not exist.
var NotFoundError = NewErrorType("NotFoundError", 1007, 404)

// A view defines no handler for the requested method.
var NotImplementedError = NewErrorType("NotImplementedError", 1008, 501)

// No view model is registered for a type, name or version. This is a server side
// configuration fault.
var ViewModelNotFoundError = NewErrorType("ViewModelNotFoundError", 1009, 500)

// A scalar value did not match the textual format its decoder expects.
var FormatError = NewErrorType("FormatError", 1010, 400)

// The request could not be authenticated.
var AuthenticationError = NewErrorType("AuthenticationError", 1011, 401)

// ErrorList holds the default error definitions.
var ErrorList = []*ErrorType{
	APIError,
	InvalidMethodError,
	NothingToReturnError,
	RequestValidationError,
	APILimitError,
	ResponseValidationError,
	ServerError,
	NotFoundError,
	NotImplementedError,
	ViewModelNotFoundError,
	FormatError,
	AuthenticationError,
}

func makeDefaultErrorCodeIndex() map[int]*ErrorType {
	index := make(map[int]*ErrorType)
	for _, errorType := range ErrorList {
		index[errorType.apiCode] = errorType
	}
	return index
}

// ErrorTypeCodeIndex is the APICode:*ErrorType index of default errors.
var ErrorTypeCodeIndex = makeDefaultErrorCodeIndex()
