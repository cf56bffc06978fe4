// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package validation wraps go-playground/validator v10 with a shared instance
// and error types shaped for the HTTP API.
//
// Both configuration sections and query parameter structs declare their
// constraints as validate tags:
//
//	type similarQuery struct {
//	    Limit int `query:"limit" validate:"gte=0,lte=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 with apiErr.Code == "VALIDATION_ERROR"
//	}
package validation
