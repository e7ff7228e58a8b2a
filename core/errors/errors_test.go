package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "module", ID: "KJV"},
			wantMsg:  "module not found: KJV",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "document"},
			wantMsg:  "document not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "database", ID: "kjv.bbl.mybible", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     NewValidation("scope", "unknown book \"Hezekiah\""),
			wantMsg: "validation failed for scope: unknown book \"Hezekiah\"",
		},
		{
			name:    "without field",
			err:     &ValidationError{Message: "ids out of order"},
			wantMsg: "validation failed: ids out of order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = false", tt.err)
			}
		})
	}
}

func TestIOError(t *testing.T) {
	err := NewIO("open", "/tmp/kjv.json", os.ErrNotExist)
	if got, want := err.Error(), "failed to open /tmp/kjv.json: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IOError should unwrap to os.ErrNotExist")
	}

	noPath := &IOError{Operation: "write", Err: os.ErrPermission}
	if got, want := noPath.Error(), "failed to write: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("JSON", "KJV.json", "unexpected end of input")
	if got, want := err.Error(), "failed to parse JSON at KJV.json: unexpected end of input"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}

	noPath := NewParse("scope", "", "unexpected token")
	if got, want := noPath.Error(), "failed to parse scope: unexpected token"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("module driver", "RawCom is not a Bible text driver")
	if got, want := err.Error(), "unsupported module driver: RawCom is not a Bible text driver"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}
	if got := (&UnsupportedError{Feature: "cipher"}).Error(); got != "unsupported cipher" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnknownBookError(t *testing.T) {
	err := &UnknownBookError{Source: "mysword", BookID: "67", Chapter: 1, Verse: 2}
	if got, want := err.Error(), `mysword: unknown book "67" at 1:2`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("UnknownBookError should unwrap to ErrNotFound")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := NewNotFound("module", "KJV")
	wrapped := Wrapf(base, "loading %s", "sword")
	if got, want := wrapped.Error(), "loading sword: module not found: KJV"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if !Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should match ErrNotFound")
	}

	var nf *NotFoundError
	if !As(Wrap(base, "outer"), &nf) || nf.ID != "KJV" {
		t.Errorf("As() did not recover NotFoundError, got %+v", nf)
	}
}
