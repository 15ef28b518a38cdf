package mutf8

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf16"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		units []uint16
		want  []byte
	}{
		{"empty", nil, []byte{}},
		{"ascii", utf16.Encode([]rune(">>2")), []byte(">>2")},
		{"nul", []uint16{'a', 0, 'b'}, []byte{'a', 0xC0, 0x80, 'b'}},
		{"two byte", utf16.Encode([]rune("é")), []byte{0xC3, 0xA9}},
		{"three byte", utf16.Encode([]rune("語")), []byte{0xE8, 0xAA, 0x9E}},
		// U+1F600 is D83D DE00 as UTF-16.
		{"supplementary", utf16.Encode([]rune("😀")), []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
		{"lone surrogate", []uint16{0xD800}, []byte{0xED, 0xA0, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.units)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestDecodeCString(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"empty", "", nil},
		{"ascii", ">>2 nice", nil},
		{"embedded nul", "a\x00b", nil},
		{"mixed", "日本語 é 😀 >>123", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeCString(utf16.Encode([]rune(tt.text)))
			got, err := DecodeCString(encoded)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeCString() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.text {
				t.Errorf("DecodeCString() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"lone high surrogate", []byte{0xED, 0xA0, 0x80}},
		{"lone low surrogate", []byte{0xED, 0xB0, 0x80}},
		{"high surrogate then ascii", []byte{0xED, 0xA0, 0xBD, 'a'}},
		{"truncated two byte", []byte{0xC3}},
		{"bad continuation", []byte{0xE8, 0x2A, 0x9E}},
		{"four byte form", []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"overlong", []byte{0xC1, 0x81}},
		{"raw nul", []byte{'a', 0x00, 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.input); !errors.Is(err, ErrInvalid) {
				t.Errorf("Decode(%x) error = %v, want ErrInvalid", tt.input, err)
			}
		})
	}
}

func TestDecodeCString_Unterminated(t *testing.T) {
	if _, err := DecodeCString([]byte("abc")); !errors.Is(err, ErrUnterminated) {
		t.Errorf("error = %v, want ErrUnterminated", err)
	}
}
