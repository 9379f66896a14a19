package viewmodel

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/illuscio-dev/spanviews-go/spanerrors"
)

// Version is an API version of a view model. NoVersion marks models that are not
// versioned and is written to the wire as null.
type Version int

// NoVersion is the "no version" identifier.
const NoVersion Version = 0

// Wire returns the value written to metadata blocks: nil for NoVersion, otherwise the
// version number.
func (version Version) Wire() interface{} {
	if version == NoVersion {
		return nil
	}
	return int(version)
}

func (version Version) String() string {
	if version == NoVersion {
		return "none"
	}
	return strconv.Itoa(int(version))
}

// ParseVersion reads a version out of decoded metadata. nil and "" read as NoVersion.
// Integers, integral floats and decimal strings read as that version.
func ParseVersion(value interface{}) (Version, error) {
	var number int64

	switch typed := value.(type) {
	case nil:
		return NoVersion, nil
	case Version:
		number = int64(typed)
	case int:
		number = int64(typed)
	case int32:
		number = int64(typed)
	case int64:
		number = typed
	case uint64:
		if typed > math.MaxInt32 {
			return NoVersion, badVersion(value)
		}
		number = int64(typed)
	case float64:
		if typed != math.Trunc(typed) {
			return NoVersion, badVersion(value)
		}
		number = int64(typed)
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return NoVersion, nil
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 32)
		if err != nil {
			return NoVersion, badVersion(value)
		}
		number = parsed
	default:
		return NoVersion, badVersion(value)
	}

	if number < 0 || number > math.MaxInt32 {
		return NoVersion, badVersion(value)
	}
	return Version(number), nil
}

func badVersion(value interface{}) error {
	return spanerrors.FormatError.Newf(nil, "invalid view model version %#v", value)
}

// Key identifies one registered view model class.
type Key struct {
	Version Version
	Name    string
}

// NewKey is a shorthand for Key{version, name}.
func NewKey(version Version, name string) Key {
	return Key{Version: version, Name: name}
}

// Less orders keys by version, then name. NoVersion sorts first.
func (key Key) Less(other Key) bool {
	if key.Version != other.Version {
		return key.Version < other.Version
	}
	return key.Name < other.Name
}

func (key Key) String() string {
	return key.Name + "@" + key.Version.String()
}

// SortKeys sorts keys in place.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
