package kalshi

import (
	"net/http"

	"github.com/goccy/go-json"
)

func decodeJSONBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
