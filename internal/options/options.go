// Package options implements the generic functional options shared by the
// configurable types of the reader.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(target T) error
}

type funcOption[T any] func(T) error

func (fn funcOption[T]) apply(target T) error { return fn(target) }

// New wraps fn as an option that may reject its target, typically because
// an argument is out of range.
func New[T any](fn func(T) error) Option[T] {
	return funcOption[T](fn)
}

// NoError wraps fn as an option that always succeeds.
func NoError[T any](fn func(T)) Option[T] {
	return funcOption[T](func(target T) error {
		fn(target)
		return nil
	})
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
