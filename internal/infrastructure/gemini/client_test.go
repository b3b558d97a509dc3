package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantErr bool
	}{
		{name: "plain json", text: `["one", "two"]`, want: []string{"one", "two"}},
		{name: "fenced json", text: "```json\n[\"one\"]\n```", want: []string{"one"}},
		{name: "lines", text: "first line\n\nsecond line", want: []string{"first line", "second line"}},
		{name: "empty", text: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseList(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
