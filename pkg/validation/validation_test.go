package validation

import (
	"testing"
)

type sampleForm struct {
	Name     string `json:"name" validate:"required,min=2,max=10"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,role"`
	CaseType string `json:"caseType" validate:"omitempty,casetype"`
	Status   string `json:"status" validate:"omitempty,casestatus"`
	Priority string `json:"priority" validate:"omitempty,priority"`
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	errs, err := Validate(sampleForm{Email: "not-an-email"})
	if err != nil {
		t.Fatal(err)
	}
	if len(errs["name"]) == 0 {
		t.Errorf("expected error keyed by json name, got %v", errs)
	}
	if len(errs["email"]) == 0 || errs["email"][0] != "Invalid email format" {
		t.Errorf("unexpected email errors: %v", errs["email"])
	}
	if _, ok := errs["Name"]; ok {
		t.Error("struct field names must not leak into error keys")
	}
}

func TestValidate_CustomEnumTags(t *testing.T) {
	tests := []struct {
		name    string
		form    sampleForm
		field   string
		wantErr bool
	}{
		{"valid role", sampleForm{Name: "ok", Role: "paralegal"}, "role", false},
		{"bad role", sampleForm{Name: "ok", Role: "judge"}, "role", true},
		{"valid type", sampleForm{Name: "ok", CaseType: "Labour"}, "caseType", false},
		{"bad type", sampleForm{Name: "ok", CaseType: "Maritime"}, "caseType", true},
		{"status with space", sampleForm{Name: "ok", Status: "In Progress"}, "status", false},
		{"bad status", sampleForm{Name: "ok", Status: "Open"}, "status", true},
		{"valid priority", sampleForm{Name: "ok", Priority: "High"}, "priority", false},
		{"bad priority", sampleForm{Name: "ok", Priority: "Urgent"}, "priority", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := Validate(tt.form)
			if err != nil {
				t.Fatal(err)
			}
			got := len(errs[tt.field]) > 0
			if got != tt.wantErr {
				t.Errorf("errors for %s = %v, want error: %v", tt.field, errs[tt.field], tt.wantErr)
			}
		})
	}
}

type partialForm struct {
	Status   *string `json:"status" validate:"omitempty,casestatus"`
	Priority *string `json:"priority" validate:"omitempty,priority"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// omitempty skips nil pointers but not pointers to "", so the enum tags
// must reject the empty string themselves.
func TestValidate_PointerToEmptyStringRejected(t *testing.T) {
	empty := ""
	errs, err := Validate(partialForm{Status: &empty, Priority: &empty, Role: &empty})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"status", "priority", "role"} {
		if len(errs[field]) == 0 {
			t.Errorf("pointer to empty string must fail %s, got %v", field, errs)
		}
	}

	errs, err = Validate(partialForm{})
	if err != nil {
		t.Fatal(err)
	}
	if errs != nil {
		t.Errorf("nil pointers must pass, got %v", errs)
	}
}

func TestValidate_CleanStructReturnsNil(t *testing.T) {
	errs, err := Validate(sampleForm{Name: "fine"})
	if err != nil {
		t.Fatal(err)
	}
	if errs != nil {
		t.Errorf("want nil, got %v", errs)
	}
}

func TestValidate_MinMaxMessages(t *testing.T) {
	errs, _ := Validate(sampleForm{Name: "x"})
	if len(errs["name"]) == 0 || errs["name"][0] != "Must be at least 2 characters" {
		t.Errorf("unexpected min message: %v", errs["name"])
	}

	errs, _ = Validate(sampleForm{Name: "waaaaaay too long"})
	if len(errs["name"]) == 0 || errs["name"][0] != "Must be at most 10 characters" {
		t.Errorf("unexpected max message: %v", errs["name"])
	}
}
