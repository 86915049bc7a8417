package util

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

func JSONMarshal(i interface{}) ([]byte, error) {
	return JSON.Marshal(i)
}

func JSONUnmarshal(b []byte, i interface{}) error {
	return JSON.Unmarshal(b, i)
}

// JSONMarshalIndent indents the output of custom MarshalJSON as well, which
// jsoniter leaves as it is.
func JSONMarshalIndent(i interface{}) ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}

func ToString(i interface{}) string {
	b, _ := JSONMarshalIndent(i)

	return string(b)
}
