package slices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertDropsZeroValues(t *testing.T) {
	in := []int{1, 0, 2, 0, 3}

	out := Convert(in, func(i int) string {
		if i == 0 {
			return ""
		}
		return strconv.Itoa(i)
	})
	require.Equal(t, []string{"1", "2", "3"}, out)
}

func TestConvertAllKeepsZeroValues(t *testing.T) {
	in := []string{"a", "", "b"}

	out := ConvertAll(in, func(s string) []string {
		return []string{s}
	})
	require.Len(t, out, 3)
	require.Equal(t, []string{""}, out[1])
}
