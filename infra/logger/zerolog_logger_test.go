package logger

import "testing"

func TestNewZerologLoggerConsoleMode(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("engine")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"plate": "ABC1234"})
	l.Infof("info %s", "run")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewZerologLoggerJSONMode(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	l := NewZerologLogger("engine")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Infof("info %s", "run")
}
