package server

import (
	"encoding/json"
	"net/http"

	"github.com/teranos/resultviz/errors"
	grapherr "github.com/teranos/resultviz/graph/error"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// errorMeta describes err for the UI, with category metadata when err
// carries it.
func errorMeta(err error) map[string]string {
	if graphErr, ok := grapherr.From(err); ok {
		return graphErr.ToGraphMeta()
	}
	return map[string]string{"error": err.Error()}
}
