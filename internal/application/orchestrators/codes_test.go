package orchestrators

import (
	"context"
	"errors"
	"testing"

	"primeportal/internal/domain/code"
)

// TestCreateCode_NormalizesAndActivates tests that a new code is stored
// normalized and active.
func TestCreateCode_NormalizesAndActivates(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{}}
	deps := CreateCodeDeps{CodeStore: codes, GenerateID: fixedID(), Now: fixedNow}

	c, err := ExecuteCreateCode(context.Background(),
		CreateCodeInput{TCode: " t500 ", CompanyName: "Acme"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TCode != "T500" || !c.Active {
		t.Errorf("unexpected code: %+v", c)
	}
	if _, ok := codes.codes["T500"]; !ok {
		t.Error("code not persisted under normalized value")
	}
}

// TestCreateCode_Duplicate tests that creating an existing value is rejected.
func TestCreateCode_Duplicate(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T500": {ID: "c1", TCode: "T500", Active: true},
	}}
	deps := CreateCodeDeps{CodeStore: codes, GenerateID: fixedID(), Now: fixedNow}

	_, err := ExecuteCreateCode(context.Background(), CreateCodeInput{TCode: "t500"}, deps)
	if !errors.Is(err, ErrDuplicateTCode) {
		t.Errorf("expected ErrDuplicateTCode, got %v", err)
	}
}

// TestCreateCode_InvalidValue tests that validation errors surface.
func TestCreateCode_InvalidValue(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{}}
	deps := CreateCodeDeps{CodeStore: codes, GenerateID: fixedID(), Now: fixedNow}

	_, err := ExecuteCreateCode(context.Background(), CreateCodeInput{TCode: "T 500"}, deps)
	if !errors.Is(err, code.ErrInvalidCharacter) {
		t.Errorf("expected ErrInvalidCharacter, got %v", err)
	}
}

// TestUpdateCode_Rename tests renaming to a free value.
func TestUpdateCode_Rename(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T500": {ID: "c1", TCode: "T500", CompanyName: "Acme", Active: true},
	}}

	c, err := ExecuteUpdateCode(context.Background(),
		UpdateCodeInput{CodeID: "c1", TCode: "t600", CompanyName: "Acme NZ"},
		UpdateCodeDeps{CodeStore: codes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TCode != "T600" || c.CompanyName != "Acme NZ" {
		t.Errorf("unexpected code: %+v", c)
	}
}

// TestUpdateCode_RenameCollision tests that renaming onto another code fails.
func TestUpdateCode_RenameCollision(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T500": {ID: "c1", TCode: "T500", Active: true},
		"T600": {ID: "c2", TCode: "T600", Active: true},
	}}

	_, err := ExecuteUpdateCode(context.Background(),
		UpdateCodeInput{CodeID: "c1", TCode: "T600"},
		UpdateCodeDeps{CodeStore: codes})
	if !errors.Is(err, ErrDuplicateTCode) {
		t.Errorf("expected ErrDuplicateTCode, got %v", err)
	}
}

// TestToggleCode tests that toggling flips and persists the flag.
func TestToggleCode(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T500": {ID: "c1", TCode: "T500", Active: true},
	}}

	c, err := ExecuteToggleCode(context.Background(), "c1", ToggleCodeDeps{CodeStore: codes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Active {
		t.Error("expected code to be inactive after toggle")
	}
	if codes.codes["T500"].Active {
		t.Error("toggle not persisted")
	}
}

// TestDeleteCode tests removal.
func TestDeleteCode(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T500": {ID: "c1", TCode: "T500", Active: true},
	}}

	if err := ExecuteDeleteCode(context.Background(), "c1", DeleteCodeDeps{CodeStore: codes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes.codes) != 0 {
		t.Errorf("codes remaining = %d, want 0", len(codes.codes))
	}
}
