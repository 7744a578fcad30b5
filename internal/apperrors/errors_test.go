package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataLoadErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("startup: %w", NewDataLoadError("candidates.xlsx", "open workbook", fs.ErrNotExist))

	var dle *DataLoadError
	assert.True(t, errors.As(err, &dle))
	assert.Equal(t, "candidates.xlsx", dle.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"field only", NewValidationError("group", "is required"), "group: is required"},
		{"message only", &ValidationError{Msg: "bad request"}, "bad request"},
		{"with cause", &ValidationError{Msg: "invalid", Err: errors.New("boom")}, "invalid: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
