package jsonpatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	rfc6902 "github.com/evanphx/json-patch/v5"
)

var ErrInvalidPatch = errors.New("invalid json patch document")

// Apply applies an RFC 6902 patch document to the JSON form of src and
// decodes the result into dst. Unknown fields introduced by the patch are
// rejected.
func Apply(src interface{}, patchDoc []byte, dst interface{}) error {
	patch, err := rfc6902.DecodePatch(patchDoc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if len(patch) == 0 {
		return fmt.Errorf("%w: no operations", ErrInvalidPatch)
	}

	original, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode patch target: %w", err)
	}

	patched, err := patch.Apply(original)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	if err := decodeStrict(patched, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return nil
}

func decodeStrict(data []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
