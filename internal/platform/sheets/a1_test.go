package sheets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{
		1:  "A",
		6:  "F",
		14: "N",
		26: "Z",
		27: "AA",
		52: "AZ",
		53: "BA",
	}
	for col, want := range cases {
		require.Equal(t, want, ColumnLetter(col))
	}
}

func TestA1(t *testing.T) {
	require.Equal(t, "H12", A1(8, 12))
	require.Equal(t, "M2", A1(13, 2))
}
