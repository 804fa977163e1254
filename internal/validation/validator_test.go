// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package validation

import (
	"strings"
	"testing"
)

type listQuery struct {
	UserID int64  `query:"user_id" validate:"gt=0"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Order  string `json:"order" validate:"omitempty,oneof=asc desc"`
}

type nestedConfig struct {
	Database struct {
		Path string `koanf:"path" validate:"required"`
	} `koanf:"database"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
		wantMsg    string
	}{
		{
			name:  "valid",
			input: &listQuery{UserID: 1, Limit: 10},
		},
		{
			name:       "missing user",
			input:      &listQuery{Limit: 10},
			wantFields: []string{"user_id"},
			wantMsg:    "user_id must be greater than 0",
		},
		{
			name:       "limit too large and bad order",
			input:      &listQuery{UserID: 3, Limit: 101, Order: "sideways"},
			wantFields: []string{"limit", "order"},
			wantMsg:    "limit must be at most 100",
		},
		{
			name:       "nested config key",
			input:      &nestedConfig{},
			wantFields: []string{"database.path"},
			wantMsg:    "database.path is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), verr, len(tt.wantFields))
			}
			for i, f := range tt.wantFields {
				if errs[i].Field != f {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, f)
				}
			}
			if !strings.Contains(verr.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&listQuery{Limit: 5}).ToAPIError()
	if single.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", single.Code)
	}
	if single.Details["field"] != "user_id" {
		t.Errorf("Details = %v", single.Details)
	}

	multi := ValidateStruct(&listQuery{Limit: 0}).ToAPIError()
	if _, ok := multi.Details["fields"]; !ok {
		t.Errorf("multi Details = %v, want fields list", multi.Details)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}
