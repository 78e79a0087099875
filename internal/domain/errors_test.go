package domain

import (
	"errors"
	"testing"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Session.Navigate", ErrNavigation, "http://localhost:3000")
	want := "Session.Navigate: http://localhost:3000: navigation failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noDetail := NewDomainError("Session.Close", ErrSessionClosed, "")
	if noDetail.Error() != "Session.Close: session is closed" {
		t.Errorf("Error() = %q", noDetail.Error())
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("Session.New", ErrBrowserStart, "all strategies exhausted")
	if !errors.Is(err, ErrBrowserStart) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(nil) should return nil")
	}
	err := WrapOp("Session.Refresh", ErrTimeout)
	if !errors.Is(err, ErrTimeout) {
		t.Error("wrapped error should match sentinel")
	}
	if err.Error() != "Session.Refresh: operation timed out" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsClosed(t *testing.T) {
	if !IsClosed(WrapOp("Session.Click", ErrSessionClosed)) {
		t.Error("IsClosed should match ErrSessionClosed")
	}
	if !IsClosed(ErrNotInitialized) {
		t.Error("IsClosed should match ErrNotInitialized")
	}
	if IsClosed(ErrTimeout) {
		t.Error("IsClosed should not match ErrTimeout")
	}
}
