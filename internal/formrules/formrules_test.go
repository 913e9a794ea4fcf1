package formrules

import "testing"

func TestPasswordTooShortCountsCharacters(t *testing.T) {
	cases := map[string]bool{
		"short":      true,
		"éééé":       true,
		"éééééééé":   false,
		"longenough": false,
	}
	for pw, want := range cases {
		if got := PasswordTooShort(pw); got != want {
			t.Fatalf("PasswordTooShort(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestPasswordProblem(t *testing.T) {
	if got := PasswordProblem("longenough", "longenough"); got != "" {
		t.Fatalf("expected no problem, got %q", got)
	}
	if got := PasswordProblem("longenough", "different1"); got != PasswordMismatchMessage {
		t.Fatalf("expected mismatch, got %q", got)
	}
	if got := PasswordProblem("abc", "abc"); got != PasswordTooShortMessage {
		t.Fatalf("expected too short, got %q", got)
	}
}

func TestEmailAndPhone(t *testing.T) {
	if !ValidEmail("ada@example.com") || ValidEmail("ada@example") {
		t.Fatalf("unexpected email rule result")
	}
	if NormalizePhone(" 01012345678 ") != "01012345678" {
		t.Fatalf("expected phone kept")
	}
	if NormalizePhone("01312345678") != "" {
		t.Fatalf("expected phone dropped")
	}
}
