package logging

import "testing"

func TestLevelFiltering(t *testing.T) {
	l := New("test")
	l.SetLevel(LevelWarn)

	if l.enabled(LevelInfo) {
		t.Fatal("info should be suppressed below warn")
	}
	if !l.enabled(LevelError) {
		t.Fatal("error should pass at warn threshold")
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "DEBUG" || LevelError.String() != "ERROR" {
		t.Fatal("unexpected level string")
	}
}
