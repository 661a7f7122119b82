package logger

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   Debug,
		" INFO ":  Info,
		"warning": Warn,
		"warn":    Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLoggerWith(t *testing.T) {
	var l Logger = NewNop()
	l = l.With("cycle", "abc")
	l.Infof("still %s", "silent")
	if err := l.Sync(); err != nil {
		t.Errorf("nop sync returned %v", err)
	}
}
