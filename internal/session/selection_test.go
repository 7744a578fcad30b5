package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "range", input: "1-3", n: 5, want: []int{0, 1, 2}},
		{name: "single range", input: "2-2", n: 5, want: []int{1}},
		{name: "list", input: "1,3,5", n: 5, want: []int{0, 2, 4}},
		{name: "list with spaces and repeats", input: " 4, 2 ,4", n: 5, want: []int{3, 1}},
		{name: "single number", input: "5", n: 5, want: []int{4}},
		{name: "empty", input: "  ", n: 5, wantErr: true},
		{name: "out of range", input: "4-6", n: 5, wantErr: true},
		{name: "zero", input: "0", n: 5, wantErr: true},
		{name: "reversed", input: "3-1", n: 5, wantErr: true},
		{name: "garbage", input: "a,b", n: 5, wantErr: true},
		{name: "bad range end", input: "1-x", n: 5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.input, tt.n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectEmails(t *testing.T) {
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}

	got, err := SelectEmails("2-3", emails)
	require.NoError(t, err)
	assert.Equal(t, []string{"b@example.com", "c@example.com"}, got)

	_, err = SelectEmails("4", emails)
	assert.Error(t, err)
}

func TestParseSelectionHugeRangeRejectedUpFront(t *testing.T) {
	allocs := testing.AllocsPerRun(1, func() {
		_, err := ParseSelection("1-5000000000", 5)
		assert.Error(t, err)
	})
	assert.Less(t, allocs, float64(100), "range is checked before it is expanded")

	_, err := ParseSelection("0-3", 5)
	assert.ErrorContains(t, err, "outside 1-5")
}
