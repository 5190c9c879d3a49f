package profile

import "testing"

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("New() = %+v, want %+v", p, want)
	}
}

func TestStartWithoutMode(t *testing.T) {
	stopper := New(WithPath(t.TempDir())).Start()
	if _, ok := stopper.(nop); !ok {
		t.Errorf("Start() = %T, want no-op", stopper)
	}

	stopper.Stop()
}

func TestStartUnknownMode(t *testing.T) {
	stopper := New(WithMode("bogus"), WithPath(t.TempDir())).Start()
	if _, ok := stopper.(nop); !ok {
		t.Errorf("Start() = %T, want no-op", stopper)
	}
}
