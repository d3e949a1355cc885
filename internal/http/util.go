package httpx

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/http/validation"
)

// parseUserID reads the {id} path value of a user route.
func parseUserID(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	if msg := validation.IntRange("User ID", 1, math.MaxInt32)(raw); msg != "" {
		return 0, apperrors.ValidationField("id", msg)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField("id", "User ID must be a number.")
	}
	return id, nil
}
