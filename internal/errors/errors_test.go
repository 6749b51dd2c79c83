package errors

import (
	stderrors "errors"
	"io"
	"testing"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	base := ConfigInvalid("alpha must be in (0, 1)")
	wrapped := Wrap(base, "configuration validation failed")

	if got := GetCode(wrapped); got != CodeConfigInvalid {
		t.Errorf("expected code %s, got %s", CodeConfigInvalid, got)
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the original AppError")
	}
	if wrapped.Error() != "configuration validation failed: alpha must be in (0, 1)" {
		t.Errorf("unexpected message: %q", wrapped.Error())
	}
}

func TestWrap_ForeignErrorBecomesInternal(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "reading sheet %s", "NLA")

	if got := GetCode(wrapped); got != CodeInternalError {
		t.Errorf("expected code %s, got %s", CodeInternalError, got)
	}
	if !stderrors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("wrapped error should unwrap to io.ErrUnexpectedEOF")
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WithCode(CodeIOError, nil) != nil {
		t.Error("WithCode(nil) should return nil")
	}
}

func TestIOError(t *testing.T) {
	err := IOError("out.xlsx", io.ErrShortWrite)

	if !IsAppError(err) {
		t.Fatal("IOError should produce an AppError")
	}
	if err.Code != CodeIOError {
		t.Errorf("expected code %s, got %s", CodeIOError, err.Code)
	}
	if GetCode(io.EOF) != "UNKNOWN" {
		t.Error("plain errors should report UNKNOWN code")
	}
}
