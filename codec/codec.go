// Package codec encodes the JSON documents lexgo persists next to its
// segments, such as commit manifests.
//
// Every manifest records the name of the codec that wrote it, so a database
// can be reopened with a different default.
package codec

import "fmt"

// Codec encodes and decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustByName is like ByName but panics for an unknown name.
func MustByName(name string) Codec {
	c, ok := ByName(name)
	if !ok {
		panic(fmt.Errorf("codec: unknown codec %q", name))
	}
	return c
}
