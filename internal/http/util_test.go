package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/visitrack/frontdesk/internal/errors"
)

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int
		wantErr bool
	}{
		{name: "valid", id: "42", want: 42},
		{name: "zero", id: "0", wantErr: true},
		{name: "negative", id: "-3", wantErr: true},
		{name: "not a number", id: "abc", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/users/x/active", nil)
			r.SetPathValue("id", tt.id)

			got, err := parseUserID(r)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, "id", apperrors.GetField(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
