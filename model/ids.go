package model

import (
	"encoding/json"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// IDSet is a membership-only set of post numbers.
type IDSet map[uint64]struct{}

var (
	_ msgpack.CustomEncoder = IDSet(nil)
	_ msgpack.CustomDecoder = (*IDSet)(nil)
)

func NewIDSet(ids ...uint64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Contains(id uint64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EncodeMsgpack writes the set as a sorted array so encodings are stable.
func (s IDSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	ids := s.Sorted()
	if err := enc.EncodeArrayLen(len(ids)); err != nil {
		return err
	}
	for _, id := range ids {
		if err := enc.EncodeUint(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *IDSet) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*s = nil
		return nil
	}
	set := make(IDSet, n)
	for i := 0; i < n; i++ {
		id, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		set[id] = struct{}{}
	}
	*s = set
	return nil
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
