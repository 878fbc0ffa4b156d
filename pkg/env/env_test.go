package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("BAZAAR_ENV_TEST", "  ")
	if got := Get("BAZAAR_ENV_TEST", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("BAZAAR_ENV_TEST", "console")
	if got := Get("BAZAAR_ENV_TEST", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("BAZAAR_ENV_BOOL", "true")
	if !Bool("BAZAAR_ENV_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("BAZAAR_ENV_BOOL", "nope")
	if Bool("BAZAAR_ENV_BOOL", false) {
		t.Fatal("expected fallback for unparsable value")
	}
}
