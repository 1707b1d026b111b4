package datastage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: "NULL"},
		{name: "string", input: "gold", want: "gold"},
		{name: "bytes", input: []byte("raw"), want: "raw"},
		{name: "int64", input: int64(42), want: "42"},
		{name: "float", input: 3.5, want: "3.5"},
		{name: "bool", input: true, want: "true"},
		{name: "time", input: ts, want: "2026-03-01T12:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatValue(tt.input))
		})
	}
}

func TestColumnProfile_Categorical(t *testing.T) {
	t.Parallel()

	assert.True(t, ColumnProfile{Values: []string{"a", "b"}}.Categorical())
	assert.True(t, ColumnProfile{Values: []string{}}.Categorical(),
		"an enumerated-but-empty value set is still categorical")
	assert.False(t, ColumnProfile{}.Categorical())
}
