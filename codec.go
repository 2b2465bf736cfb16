package nest

import (
	"encoding/json"
	"fmt"
)

// Codec provides content-type aware canonical marshaling.
//
// Implementations normalize v before encoding (see Normalize) so that any Go
// value can be handed to Marshal, and decode objects into *Object so that key
// order survives a round trip.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v. A *any destination receives canonical
	// model values.
	Unmarshal(data []byte, v any) error
}

// Populate stores a decoded model value in dst. A *any receives model as
// is and a *Object receives a decoded object. Any other destination is
// filled from model's canonical JSON text with encoding/json, so structs
// bind by their json tags whichever codec produced the model.
func Populate(model, dst any) error {
	switch t := dst.(type) {
	case *any:
		*t = model
		return nil
	case *Object:
		obj, ok := model.(*Object)
		if !ok || obj == nil {
			return fmt.Errorf("%w: cannot populate Object from %T", ErrTypeMismatch, model)
		}
		*t = *obj
		return nil
	}

	m, err := Normalize(model)
	if err != nil {
		return err
	}
	data, err := appendCanonical(nil, m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
