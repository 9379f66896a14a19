package spanerrors

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/mimetype"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
)

// Interface for object that can set header information.
type headerSetter interface {
	Set(key string, value string)
}

type headerFetcher interface {
	Get(key string) string
}

// ToHeader writes the error to an object which implements a Set(key, value) method
// like http.Header. Error data is written as JSON, so dataEngine should be a compact
// (non indenting) engine.
func (spanError *Error) ToHeader(
	setter headerSetter, dataEngine encoding.ContentEngine,
) error {
	setter.Set("error-name", spanError.name)
	setter.Set("error-code", strconv.Itoa(spanError.apiCode))
	setter.Set("error-message", spanError.Message)
	setter.Set("error-id", spanError.ID.String())

	if spanError.ErrorData != nil {
		dataBytes := bytes.Buffer{}
		err := dataEngine.Encode(mimetype.JSON, spanError.ErrorData, &dataBytes)
		if err != nil {
			return err
		}
		setter.Set("error-data", strings.TrimSpace(dataBytes.String()))
	}

	return nil
}

/*
ErrorFromHeaders generates an error object from the headers of an HTTP response. If an
Error can be made from the header data, a pointer to it is returned. If an error code is
detected in the headers, but the header data is malformed and cannot be loaded, then
hasError is returned as True, and a description of the parsing issue is returned in err.

If the headers do not contain an error, hasError will be False, spanError will be
returned as a nil pointer, and err will specify that no error was found.
*/
func ErrorFromHeaders(
	headers headerFetcher,
	dataEngine encoding.ContentEngine,
	errorTypeCodeIndex map[int]*ErrorType,
) (spanError *Error, hasError bool, err error) {
	errorCodeStr := headers.Get("error-code")
	if errorCodeStr == "" {
		return nil, false, xerrors.New("no error in headers")
	}

	errorCode, err := strconv.Atoi(errorCodeStr)
	if err != nil {
		return nil, false, xerrors.New("error-code not int")
	}

	if errorTypeCodeIndex == nil {
		return nil, true, xerrors.New("no error index provided")
	}
	errorType, ok := errorTypeCodeIndex[errorCode]
	if !ok {
		return nil, true, xerrors.New("no known error for code " + errorCodeStr)
	}

	errorID, err := uuid.FromString(headers.Get("error-id"))
	if err != nil {
		return nil, true, xerrors.New("error ID is not valid UUID")
	}

	var errorData map[string]interface{}
	if errorDataStr := headers.Get("error-data"); errorDataStr != "" {
		var decoded interface{}
		err := dataEngine.Decode(mimetype.JSON, &decoded, strings.NewReader(errorDataStr))
		dataMap, isMap := decoded.(map[string]interface{})
		if err != nil || !isMap {
			return nil, true, xerrors.New("error data could not be parsed as JSON")
		}
		errorData = dataMap
	}

	spanError = errorType.New(headers.Get("error-message"), errorData, nil)
	spanError.ID = errorID

	return spanError, true, nil
}
