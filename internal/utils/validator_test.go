package utils

import "testing"

type signup struct {
	Username string `json:"username" validate:"required,alpha,min=2,max=25"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidate(t *testing.T) {
	if errs := Validate(signup{Username: "alice", Email: "alice@example.com"}); errs != nil {
		t.Fatalf("expected valid got %v", errs)
	}
	errs := Validate(signup{Username: "al1ce", Email: "nope"})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors got %v", errs)
	}
	if errs[0].Field != "username" || errs[0].Tag != "alpha" {
		t.Fatalf("expected json field names got %+v", errs[0])
	}
}
