package logger

import "testing"

func TestNew(t *testing.T) {
	testCases := []Config{
		{Level: "debug", Encoding: "console", Development: true},
		{Level: "warn", Encoding: "json"},
		{Level: "bogus", Encoding: "xml"},
	}
	for _, cfg := range testCases {
		l, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%+v) error = %v", cfg, err)
		}
		l.Info("logger ready")
	}

	l, _ := New(Config{Level: "warn", Encoding: "json"})
	if l.Core().Enabled(-1) {
		t.Error("debug enabled on a warn logger")
	}
}
