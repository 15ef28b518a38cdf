package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Spannable{}
	_ msgpack.CustomDecoder = (*Spannable)(nil)
)

var errNoData = errors.New("spannable has no data")

// spannableWire is the tagged form of Spannable: the payload is encoded
// separately and discriminated by kind.
type spannableWire struct {
	Kind   string             `msgpack:"kind"`
	Data   msgpack.RawMessage `msgpack:"data"`
	Start  uint32             `msgpack:"start"`
	Length uint32             `msgpack:"length"`
}

func (s Spannable) EncodeMsgpack(enc *msgpack.Encoder) error {
	if s.Data == nil {
		return errNoData
	}
	data, err := msgpack.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", s.Data.Kind(), err)
	}
	return enc.Encode(spannableWire{
		Kind:   s.Data.Kind().String(),
		Data:   data,
		Start:  s.Start,
		Length: s.Length,
	})
}

func (s *Spannable) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w spannableWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	data, err := newData(w.Kind)
	if err != nil {
		return err
	}
	if len(w.Data) > 0 {
		if err := msgpack.Unmarshal(w.Data, data); err != nil {
			return fmt.Errorf("decode %s payload: %w", w.Kind, err)
		}
	}
	*s = Spannable{Data: data, Start: w.Start, Length: w.Length}
	return nil
}

type spannableJSON struct {
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data,omitempty"`
	Start  uint32          `json:"start"`
	Length uint32          `json:"length"`
}

func (s Spannable) MarshalJSON() ([]byte, error) {
	if s.Data == nil {
		return nil, errNoData
	}
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(spannableJSON{
		Kind:   s.Data.Kind().String(),
		Data:   data,
		Start:  s.Start,
		Length: s.Length,
	})
}

func (s *Spannable) UnmarshalJSON(b []byte) error {
	var w spannableJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	data, err := newData(w.Kind)
	if err != nil {
		return err
	}
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, data); err != nil {
			return fmt.Errorf("decode %s payload: %w", w.Kind, err)
		}
	}
	*s = Spannable{Data: data, Start: w.Start, Length: w.Length}
	return nil
}

func newData(kind string) (SpannableData, error) {
	k, ok := ParseSpanKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown spannable kind %q", kind)
	}
	return NewSpannableData(k), nil
}
