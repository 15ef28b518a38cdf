package hostenv

import (
	"fmt"
	"strings"
)

// KindOfSig returns the value kind a field descriptor holds.
func KindOfSig(sig string) (ValueKind, error) {
	if sig == "" {
		return KindVoid, fmt.Errorf("empty descriptor")
	}
	switch sig[0] {
	case 'Z':
		return KindBool, expectLen(sig, 1)
	case 'I':
		return KindInt, expectLen(sig, 1)
	case 'J':
		return KindLong, expectLen(sig, 1)
	case 'V':
		return KindVoid, expectLen(sig, 1)
	case 'L', '[':
		n, err := fieldSigLen(sig)
		if err != nil {
			return KindVoid, err
		}
		return KindObject, expectLen(sig, n)
	default:
		return KindVoid, fmt.Errorf("unsupported descriptor %q", sig)
	}
}

func expectLen(sig string, n int) error {
	if len(sig) != n {
		return fmt.Errorf("malformed descriptor %q", sig)
	}
	return nil
}

// ParseMethodSig splits a method descriptor such as "(Ljava/lang/String;JJ)V"
// into parameter descriptors and the return descriptor.
func ParseMethodSig(sig string) (params []string, ret string, err error) {
	if !strings.HasPrefix(sig, "(") {
		return nil, "", fmt.Errorf("method descriptor %q must start with '('", sig)
	}
	rest := sig[1:]
	for {
		if rest == "" {
			return nil, "", fmt.Errorf("method descriptor %q is unterminated", sig)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		n, err := fieldSigLen(rest)
		if err != nil {
			return nil, "", fmt.Errorf("method descriptor %q: %w", sig, err)
		}
		params = append(params, rest[:n])
		rest = rest[n:]
	}
	if _, err := KindOfSig(rest); err != nil {
		return nil, "", fmt.Errorf("method descriptor %q: %w", sig, err)
	}
	return params, rest, nil
}

// fieldSigLen returns the length of the leading field descriptor in s.
func fieldSigLen(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty descriptor")
	}
	switch s[0] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		return 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 2 {
			return 0, fmt.Errorf("malformed class descriptor %q", s)
		}
		return end + 1, nil
	case '[':
		n, err := fieldSigLen(s[1:])
		if err != nil {
			return 0, err
		}
		return n + 1, nil
	default:
		return 0, fmt.Errorf("unexpected descriptor character %q", s[0])
	}
}

// ClassOfSig returns the class name of an object descriptor
// ("Lpkg/C;" -> "pkg/C"), or "" for primitives and arrays.
func ClassOfSig(sig string) string {
	if len(sig) > 2 && sig[0] == 'L' && sig[len(sig)-1] == ';' {
		return sig[1 : len(sig)-1]
	}
	return ""
}
