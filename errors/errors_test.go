package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseDecode,
				Kind:     KindTypeMismatch,
				Path:     []string{"PostParserContext", "threadId"},
				GoType:   "uint64",
				HostType: "J",
				Detail:   "declared as Ljava/lang/String;",
			},
			contains: []string{"[decode]", "type_mismatch", "PostParserContext.threadId", "uint64", "host type J", "declared as"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindHostConstruction,
			},
			contains: []string{"[encode]", "host_construction"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBoundary,
				Kind:   KindInternalFault,
				Detail: "index out of range",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[boundary]", "internal_fault", "index out of range", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindHostConstruction,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindFieldMissing,
		Path:  []string{"threadId"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindFieldMissing}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindFieldMissing}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, Kinded(KindFieldMissing)) {
		t.Error("Kinded matcher should ignore phase")
	}

	wrapped := fmt.Errorf("assemble context: %w", err)
	if !errors.Is(wrapped, Kinded(KindFieldMissing)) {
		t.Error("errors.Is should match through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindOverflow).
		Path("PostCommentSpannable", "start").
		HostType("I").
		Value(uint32(1 << 31)).
		Cause(cause).
		Detail("span %s", "start").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
	}
	if len(err.Path) != 2 || err.Path[1] != "start" {
		t.Errorf("Path = %v, want [PostCommentSpannable start]", err.Path)
	}
	if err.GoType != "" || err.HostType != "I" {
		t.Errorf("GoType=%v HostType=%v", err.GoType, err.HostType)
	}
	if err.Value != uint32(1<<31) {
		t.Errorf("Value = %v", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "span start" {
		t.Errorf("Detail = %q, want 'span start'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseDecode, []string{"ThreadToParse"}, "postToParseList")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
		}
		if !strings.Contains(err.Detail, "postToParseList") {
			t.Errorf("Detail = %q, should name the field", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, []string{"comment"}, []byte{0xed, 0xa0, 0x80})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "eda080") {
			t.Errorf("Detail = %q, should carry a hex preview", err.Detail)
		}
	})

	t.Run("HostConstruction", func(t *testing.T) {
		cause := errors.New("no such method")
		err := HostConstruction(PhaseEncode, []string{"descriptor"}, "PostDescriptor", cause)
		if err.Kind != KindHostConstruction || err.HostType != "PostDescriptor" {
			t.Errorf("got %+v", err)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("InternalFault from string", func(t *testing.T) {
		err := InternalFault(PhaseBoundary, "boom")
		if err.Kind != KindInternalFault || !strings.Contains(err.Detail, "boom") {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("InternalFault from error", func(t *testing.T) {
		cause := errors.New("runtime error: index out of range [3] with length 1")
		err := InternalFault(PhaseBoundary, cause)
		if !errors.Is(err, cause) {
			t.Error("recovered error should be the cause")
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"length"}, uint32(1<<31), "I")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("EngineContract", func(t *testing.T) {
		err := EngineContract("got %d results for %d posts", 1, 2)
		if err.Phase != PhaseEngine || err.Detail != "got 1 results for 2 posts" {
			t.Errorf("got %+v", err)
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"direct", FieldMissing(PhaseDecode, nil, "a"), KindFieldMissing},
		{"wrapped", fmt.Errorf("outer: %w", InvalidInput(PhaseConfig, "bad")), KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
