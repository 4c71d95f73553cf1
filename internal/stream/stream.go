// Package stream contains generic interfaces for producing and consuming
// sequences of values, used to feed listings to the output printers.
package stream

import "io"

// Reader produces values of type T. It is like io.Reader for values of any
// type: Read returns io.EOF when the end of the stream has been reached.
type Reader[T any] interface {
	Read(values []T) (int, error)
}

// Writer consumes values of type T.
type Writer[T any] interface {
	Write(values []T) (int, error)
}

// WriteCloser is a Writer which must be closed to flush the values it holds.
type WriteCloser[T any] interface {
	Writer[T]
	io.Closer
}

// NewReader constructs a Reader from a sequence of values.
func NewReader[T any](values ...T) Reader[T] {
	return &reader[T]{values: values}
}

type reader[T any] struct{ values []T }

func (r *reader[T]) Read(values []T) (n int, err error) {
	n = copy(values, r.values)
	r.values = r.values[n:]
	if len(r.values) == 0 {
		err = io.EOF
	}
	return n, err
}

// Convert returns a Reader applying conv to the values read from base.
func Convert[To, From any](base Reader[From], conv func(From) (To, error)) Reader[To] {
	return &convertReader[To, From]{base: base, conv: conv}
}

type convertReader[To, From any] struct {
	base Reader[From]
	from []From
	conv func(From) (To, error)
}

func (r *convertReader[To, From]) Read(values []To) (int, error) {
	if cap(r.from) < len(values) {
		r.from = make([]From, len(values))
	}
	n, err := r.base.Read(r.from[:len(values)])
	for i, from := range r.from[:n] {
		to, convErr := r.conv(from)
		if convErr != nil {
			return i, convErr
		}
		values[i] = to
	}
	return n, err
}

// ReadAll reads all values from r. Reaching the end of the stream is not
// reported as an error.
func ReadAll[T any](r Reader[T]) ([]T, error) {
	var values []T
	buf := make([]T, 16)
	for {
		n, err := r.Read(buf)
		values = append(values, buf[:n]...)
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return values, err
		}
	}
}

// Copy writes all values read from r to w and returns how many were copied.
func Copy[T any](w Writer[T], r Reader[T]) (int64, error) {
	var total int64
	buf := make([]T, 16)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return total, err
		}
	}
}
