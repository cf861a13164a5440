package memtrack

import "reflect"

// Footprint returns the combined static size in bytes of the given values,
// i.e. the sum of their types' sizes. It measures the values themselves, not
// heap memory they point at: a slice contributes its three-word header, not
// its backing array. Nil values contribute zero.
func Footprint(values ...any) uintptr {
	var total uintptr
	for _, v := range values {
		if v == nil {
			continue
		}
		total += reflect.TypeOf(v).Size()
	}
	return total
}
