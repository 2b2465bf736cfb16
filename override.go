package nest

// Normalizer lets a type bypass reflection-based normalization.
//
// When a value implements Normalizer, Normalize calls the method and
// converts its result instead of walking the value's fields. The result may
// be any value Normalize accepts except another Normalizer.
//
//	type Money struct{ cents int64 }
//
//	func (m Money) Normalize() (any, error) {
//	    return float64(m.cents) / 100, nil
//	}
type Normalizer interface {
	// Normalize returns the value to serialize in place of the receiver.
	Normalize() (any, error)
}
