package worker

import (
	"errors"
	"testing"
	"time"
)

func TestErrorPredicates(t *testing.T) {
	if !IsValidation(ErrValidation("bad input")) {
		t.Fatal("IsValidation")
	}
	if !IsBusy(busyError{}) {
		t.Fatal("IsBusy")
	}
	if !IsUnavailable(ErrUnavailable("weights missing")) {
		t.Fatal("IsUnavailable")
	}
	if !IsTimeout(timeoutError{limit: time.Minute}) {
		t.Fatal("IsTimeout")
	}
	generic := errors.New("boom")
	for name, pred := range map[string]func(error) bool{
		"validation":  IsValidation,
		"busy":        IsBusy,
		"unavailable": IsUnavailable,
		"timeout":     IsTimeout,
	} {
		if pred(generic) {
			t.Fatalf("%s matched generic error", name)
		}
		if pred(nil) {
			t.Fatalf("%s matched nil", name)
		}
	}
}
