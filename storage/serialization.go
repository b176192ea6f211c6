package storage

import (
	"fmt"

	"github.com/poiesic/qaembed/core"
)

// MarshalResultRecord serializes a ResultRecord to bytes.
func MarshalResultRecord(record *core.ResultRecord) []byte {
	buf := make([]byte, core.ResultRecordMUS.Size(*record))
	core.ResultRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalResultRecord deserializes a ResultRecord from bytes.
func UnmarshalResultRecord(data []byte) (*core.ResultRecord, error) {
	record, _, err := core.ResultRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
