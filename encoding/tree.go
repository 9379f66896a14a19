package encoding

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decodeTree runs decode directly for typed receivers. A *interface{} receiver gets a
// normalized tree instead.
func decodeTree(receiver interface{}, decode func(target interface{}) error) error {
	treeReceiver, ok := receiver.(*interface{})
	if !ok {
		return decode(receiver)
	}

	var tree interface{}
	if err := decode(&tree); err != nil {
		return err
	}
	*treeReceiver = Normalize(tree)
	return nil
}

/*
Normalize rewrites a decoded tree so it looks the same regardless of the wire format it
came from:

• objects become map[string]interface{} (yaml and cbor produce interface keyed maps,
bson produces primitive.D / primitive.M)

• arrays become []interface{}

• integers become int64 where they fit
*/
func Normalize(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, item := range typed {
			typed[key] = Normalize(item)
		}
		return typed
	case primitive.M:
		return Normalize(map[string]interface{}(typed))
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			normalized[fmt.Sprint(key)] = Normalize(item)
		}
		return normalized
	case primitive.D:
		normalized := make(map[string]interface{}, len(typed))
		for _, element := range typed {
			normalized[element.Key] = Normalize(element.Value)
		}
		return normalized
	case []interface{}:
		for index, item := range typed {
			typed[index] = Normalize(item)
		}
		return typed
	case primitive.A:
		return Normalize([]interface{}(typed))
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case uint64:
		if typed <= math.MaxInt64 {
			return int64(typed)
		}
		return typed
	default:
		return value
	}
}
