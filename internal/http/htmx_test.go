package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	if !IsHTMX(r) || !WantsPartial(r) {
		t.Fatal("expected htmx request to want a partial")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	if IsHTMX(r2) || WantsPartial(r2) {
		t.Fatal("expected defaults to false")
	}
}

func triggerPayload(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &payload))
	return payload
}

func TestHTMXResponse_Redirect(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "redirect to root", url: "/"},
		{name: "redirect to users", url: "/users"},
		{name: "redirect with query params", url: "/visitors?q=cruz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Redirect(tt.url)

			assert.Equal(t, tt.url, w.Header().Get("Hx-Redirect"))
			assert.Equal(t, http.StatusNoContent, w.Code)
		})
	}
}

func TestSetHXTrigger_MergesEvents(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).
		Toast(msgUserAdded, "success").
		Trigger(eventUsersChanged, nil)

	payload := triggerPayload(t, w)
	assert.Equal(t, true, payload[eventUsersChanged])
	toast, ok := payload[eventShowToast].(map[string]any)
	require.True(t, ok, "toast payload: %v", payload)
	assert.Equal(t, msgUserAdded, toast["message"])
	assert.Equal(t, "success", toast["type"])
}

func TestSetHXTrigger_KeepsBareEventName(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Hx-Trigger", "legacy")
	SetHXTrigger(w, "saved", map[string]string{"id": "1"})

	payload := triggerPayload(t, w)
	assert.Equal(t, true, payload["legacy"])
	assert.Equal(t, map[string]any{"id": "1"}, payload["saved"])
}

func TestHTMXResponse_ToastIgnoresBlankMessage(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Toast("   ", "error")
	assert.Empty(t, w.Header().Get("Hx-Trigger"))
}

func TestHTMXResponse_Reswap(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Reswap("none")
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
}
