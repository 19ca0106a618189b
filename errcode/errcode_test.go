package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = BusError
	if err.Error() != "bus_error" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestEMessage(t *testing.T) {
	e := &E{C: ConfigError, Op: "sensor.New", Msg: "capacity exceeded"}
	want := "sensor.New: config_error: capacity exceeded"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
}

func TestOf(t *testing.T) {
	cause := errors.New("no ack")
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", NotReady, NotReady},
		{"wrapped", Wrap(BusError, "aht10.read", cause), BusError},
		{"fmt wrapped", fmt.Errorf("poll: %w", Wrap(NotFound, "ds18b20", nil)), NotFound},
		{"foreign", cause, Error},
	}
	for _, tc := range cases {
		if got := Of(tc.err); got != tc.want {
			t.Errorf("%s: Of() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIs(t *testing.T) {
	err := Wrap(ValidationError, "aht10.read", errors.New("out of range"))
	if !Is(err, ValidationError) {
		t.Error("expected ValidationError match")
	}
	if Is(err, BusError) {
		t.Error("unexpected BusError match")
	}
	if !Is(nil, OK) {
		t.Error("nil should match OK")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Wrap(BusError, "bh1750.read", cause)
	if !errors.Is(err, cause) {
		t.Error("cause lost in unwrap chain")
	}
}
