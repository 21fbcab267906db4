package ast

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(errors.Wrap(err, "ast: failed to create CBOR enc mode"))
	}
	cborEncMode = em
}

// MarshalTree serializes a tree to canonical CBOR, so equal trees give equal bytes.
func MarshalTree(root *Generic) ([]byte, error) {
	return cborEncMode.Marshal(root)
}

func UnmarshalTree(data []byte) (*Generic, error) {
	var root Generic
	if err := cbor.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "ast: unmarshal tree")
	}
	return &root, nil
}

// ReadTree reads a serialized tree. JSON documents are recognized by their leading '{',
// everything else is decoded as CBOR.
func ReadTree(rd io.Reader) (*Generic, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var root Generic
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, errors.Wrap(err, "ast: unmarshal json tree")
		}
		return &root, nil
	}
	return UnmarshalTree(data)
}

