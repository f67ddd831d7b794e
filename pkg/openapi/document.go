package openapi

import (
	"errors"
	"fmt"
)

// Document wraps a serialized OpenAPI payload.
type Document struct {
	raw        []byte
	operations []string
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(raw []byte, operations ...string) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{
		raw:        append([]byte(nil), raw...),
		operations: append([]string(nil), operations...),
	}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(raw []byte) Document {
	doc, err := NewDocument(raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Raw returns a copy of the JSON payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Operations lists the operation IDs in the order they were added.
func (d Document) Operations() []string {
	return append([]string(nil), d.operations...)
}

func (d Document) String() string {
	return fmt.Sprintf("openapi document (%d bytes, %d operations)", len(d.raw), len(d.operations))
}
