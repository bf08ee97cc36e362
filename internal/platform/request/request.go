// Copyright (c) 2026 AfterMe. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts common body decoding patterns so handlers share consistent
error handling for malformed payloads.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/afterme/afterme/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns validate.ErrInvalidJSON if decoding fails, otherwise nil.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}
