package grpcapi

import (
	"fmt"
)

// codec passes messages through as raw bytes.
// the bytes are the marshalutil encodings from package server.
type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	switch m := v.(type) {
	case *[]byte:
		return *m, nil
	case []byte:
		return m, nil
	default:
		return nil, fmt.Errorf("grpcapi: can't marshal %T", v)
	}
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("grpcapi: can't unmarshal into %T", v)
	}
	*m = append([]byte(nil), data...)
	return nil
}

func (codec) Name() string {
	return "anchorage"
}
