package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// compiled request schemas, loaded once at startup
var requestSchemas = map[string]*jsonschema.Schema{}

func init() {
	for _, name := range []string{"question_create", "answer_create", "comment_create", "vote_cast"} {
		b, err := schemaFiles.ReadFile("schemas/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("read schema %s: %v", name, err))
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			panic(fmt.Sprintf("compile schema %s: %v", name, err))
		}
		requestSchemas[name] = rs
	}
}

// decodeValid reads the request body, validates it against the named schema
// and decodes it into dst. Schema violations are written as a 422 with
// per-key details; the caller should return immediately when ok is false.
func decodeValid(w http.ResponseWriter, r *http.Request, schemaName string, dst any) (ok bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}

	rs, found := requestSchemas[schemaName]
	if !found {
		panic(fmt.Sprintf("unknown request schema %q", schemaName))
	}

	keyErrs, err := rs.ValidateBytes(context.Background(), body)
	if err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	if len(keyErrs) > 0 {
		details := make([]map[string]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			details = append(details, map[string]string{
				"field":   ke.PropertyPath,
				"message": ke.Message,
			})
		}
		writeJSON(w, map[string]any{"error": "validation failed", "details": details}, http.StatusUnprocessableEntity)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}
