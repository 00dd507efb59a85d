package routetypes

import "fmt"

// Range returns a validator enforcing an inclusive [min, max] bound on any
// numeric value the built-in resolvers produce. An absent optional value
// passes; other non-numeric values are rejected with KindValidation.
func Range(min, max float64) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		var n float64
		switch v := value.(type) {
		case int:
			n = float64(v)
		case int64:
			n = float64(v)
		case uint64:
			n = float64(v)
		case float64:
			n = float64(v)
		default:
			return &RouteError{
				Kind:    KindValidation,
				Message: fmt.Sprintf("range validator applied to non-numeric value %v", value),
				Value:   fmt.Sprintf("%v", value),
			}
		}
		if n < min || n > max {
			return &RouteError{
				Kind:    KindNumberNotInRange,
				Message: fmt.Sprintf("value %v is outside the range [%v, %v]", value, min, max),
				Value:   fmt.Sprintf("%v", value),
				Min:     min,
				Max:     max,
			}
		}
		return nil
	}
}
