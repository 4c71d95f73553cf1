package stream_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stealthrocket/sysgen/internal/assert"
	"github.com/stealthrocket/sysgen/internal/stream"
)

func TestReadAll(t *testing.T) {
	values := make([]int, 40)
	for i := range values {
		values[i] = i
	}
	read, err := stream.ReadAll(stream.NewReader(values...))
	assert.OK(t, err)
	assert.EqualAll(t, read, values)
}

func TestReadAllEmpty(t *testing.T) {
	read, err := stream.ReadAll(stream.NewReader[string]())
	assert.OK(t, err)
	assert.Equal(t, len(read), 0)
}

func TestConvert(t *testing.T) {
	r := stream.Convert(stream.NewReader(1, 2, 3), func(v int) (string, error) {
		return strconv.Itoa(v * 10), nil
	})
	read, err := stream.ReadAll(r)
	assert.OK(t, err)
	assert.EqualAll(t, read, []string{"10", "20", "30"})
}

func TestConvertError(t *testing.T) {
	errOdd := errors.New("odd")
	r := stream.Convert(stream.NewReader(2, 3, 4), func(v int) (int, error) {
		if v%2 != 0 {
			return 0, errOdd
		}
		return v, nil
	})
	read, err := stream.ReadAll(r)
	assert.Error(t, err, errOdd)
	assert.EqualAll(t, read, []int{2})
}

type sliceWriter[T any] struct{ values []T }

func (w *sliceWriter[T]) Write(values []T) (int, error) {
	w.values = append(w.values, values...)
	return len(values), nil
}

func TestCopy(t *testing.T) {
	w := new(sliceWriter[string])
	n, err := stream.Copy[string](w, stream.NewReader("a", "b", "c"))
	assert.OK(t, err)
	assert.Equal(t, n, 3)
	assert.EqualAll(t, w.values, []string{"a", "b", "c"})
}
