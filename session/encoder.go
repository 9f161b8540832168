package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const recordVersionV1 = 1

// Encode serializes a session record into its compact binary form:
// version byte, length-prefixed account ID, created-at and expires-at as
// big-endian int64.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)

	if len(s.AccountID) > 255 {
		return nil, errors.New("account id too long")
	}
	buf.WriteByte(byte(len(s.AccountID)))
	buf.WriteString(s.AccountID)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a binary session record. The SessionID is not part of the
// record; callers set it from the key they looked up.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordVersionV1 {
		return nil, errors.New("invalid session record version")
	}

	s := &Session{}

	idLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	accountID := make([]byte, idLen)
	if _, err := io.ReadFull(reader, accountID); err != nil {
		return nil, err
	}
	s.AccountID = string(accountID)

	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, err
	}

	return s, nil
}
