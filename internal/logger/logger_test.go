package logger

import "testing"

func TestNew(t *testing.T) {
	for _, dev := range []bool{true, false} {
		log, err := New(dev)
		if err != nil {
			t.Fatalf("New(%v) error = %v", dev, err)
		}
		if log == nil {
			t.Fatalf("New(%v) returned nil logger", dev)
		}
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Must panicked: %v", r)
		}
	}()
	if Must(true) == nil {
		t.Error("Must returned nil logger")
	}
}
