// Enumeration-like type for content mimetypes.
package mimetype

import (
	"strings"
)

/*
MimeType is used to enumerate the default representation for content encoding types.
Non default MimeTypes can be used by wrapping a custom string:

	MimeType("text/csv")
*/
type MimeType string

const (
	JSON = MimeType("application/json")
	BSON = MimeType("application/bson")
	YAML = MimeType("application/yaml")
	CBOR = MimeType("application/cbor")
	TEXT = MimeType("text/plain")
	// UNKNOWN is used when the incoming string is blank
	UNKNOWN = MimeType("")
)

// DefaultCharset is assumed for request bodies that do not declare one.
const DefaultCharset = "utf-8"

// List of default mimeTypes that are encoded to / from objects (as opposed to raw
// text).
var objectMimeTypes = []MimeType{JSON, BSON, YAML, CBOR}

// Interface for object used to set headers such as http.Request.Header or
// http.Response.Header
type headerFetcher interface {
	Get(string) string
}

// Extract content type from a message / request header.
func FromHeader(headers headerFetcher) MimeType {
	return FromString(headers.Get("Content-Type"))
}

/*
Convert MimeType from a string. Ignores case and any parameters after ';'. If the
MimeType is a default type, multiple formats are respected. For instance, all of the
following will yield "mimetype.JSON":

• "application/json"

• "application/JSON; charset=utf-8"

• "application/x-json"

• "json"

• "x-json"
*/
func FromString(incoming string) MimeType {
	incoming, _ = Split(incoming)
	incoming = strings.ToLower(incoming)

	if incoming == "" {
		return UNKNOWN
	}
	if incoming == "text/plain" || incoming == "text" {
		return TEXT
	}

	for _, mimeType := range objectMimeTypes {
		mimeTypeLower := strings.ToLower(string(mimeType))
		mimeTypeLower = strings.Split(mimeTypeLower, "/")[1]
		if strings.HasSuffix(incoming, mimeTypeLower) {
			return mimeType
		}
	}

	return MimeType(incoming)
}

// Split separates a Content-Type value into its media type and its charset parameter.
// The charset is returned lower-cased and unquoted, or empty when not declared.
func Split(contentType string) (mediaType string, charset string) {
	parts := strings.Split(contentType, ";")
	mediaType = strings.TrimSpace(parts[0])

	for _, param := range parts[1:] {
		keyValue := strings.SplitN(strings.TrimSpace(param), "=", 2)
		if len(keyValue) != 2 || !strings.EqualFold(keyValue[0], "charset") {
			continue
		}
		charset = strings.ToLower(strings.Trim(strings.TrimSpace(keyValue[1]), `"`))
	}

	return mediaType, charset
}

// CharsetFromHeader returns the declared charset of a message, falling back to
// DefaultCharset.
func CharsetFromHeader(headers headerFetcher) string {
	_, charset := Split(headers.Get("Content-Type"))
	if charset == "" {
		return DefaultCharset
	}
	return charset
}
