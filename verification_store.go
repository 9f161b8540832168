package adminauth

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const verificationRecordVersionV1 = 1

// expiredRetention keeps a logically expired record around long enough to
// report VerifyExpired distinctly instead of collapsing into a generic
// invalid-code result the moment Redis evicts the key.
const expiredRetention = time.Hour

var (
	errVerificationNotFound         = errors.New("verification record not found")
	errVerificationRedisUnavailable = errors.New("verification redis unavailable")
)

// verificationRecord is one live code per (purpose, account). Saving a new
// record supersedes the prior one; the attempt counter lives in its own
// Redis key so increments commit atomically even when the surrounding
// request is abandoned.
type verificationRecord struct {
	AccountID string
	// Code is either the plaintext code or its sha256-prefixed digest;
	// comparison is prefix-aware (see internal.CodesMatch).
	Code      string
	ExpiresAt int64
	Used      bool
	Purpose   VerificationPurpose
}

type verificationStore struct {
	redis  redis.UniversalClient
	prefix string
}

func newVerificationStore(redisClient redis.UniversalClient, prefix string) *verificationStore {
	if prefix == "" {
		prefix = "avc"
	}
	return &verificationStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *verificationStore) key(purpose VerificationPurpose, accountID string) string {
	return fmt.Sprintf("%s:%d:%s", s.prefix, purpose, accountID)
}

func (s *verificationStore) attemptsKey(purpose VerificationPurpose, accountID string) string {
	return fmt.Sprintf("%sa:%d:%s", s.prefix, purpose, accountID)
}

// Save persists a record and resets the attempt counter, superseding any
// prior record of the same purpose.
func (s *verificationStore) Save(ctx context.Context, record *verificationRecord, ttl time.Duration) error {
	encoded, err := encodeVerificationRecord(record)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(record.Purpose, record.AccountID), encoded, ttl+expiredRetention)
		pipe.Del(ctx, s.attemptsKey(record.Purpose, record.AccountID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
	}

	return nil
}

func (s *verificationStore) Get(ctx context.Context, purpose VerificationPurpose, accountID string) (*verificationRecord, error) {
	data, err := s.redis.Get(ctx, s.key(purpose, accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errVerificationNotFound
		}
		return nil, fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
	}

	record, err := decodeVerificationRecord(data)
	if err != nil {
		return nil, errVerificationNotFound
	}

	return record, nil
}

// IncrementAttempts moves the attempt counter by one and returns the new
// value. The counter is a security control: it is committed before the
// candidate code is even looked at, so abandoned requests still count.
func (s *verificationStore) IncrementAttempts(ctx context.Context, purpose VerificationPurpose, accountID string, ttl time.Duration) (int64, error) {
	key := s.attemptsKey(purpose, accountID)

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
	}
	if count == 1 {
		if err := s.redis.Expire(ctx, key, ttl+expiredRetention).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
		}
	}

	return count, nil
}

// MarkUsed flags the record as consumed, preserving its remaining TTL. A
// used record stays in place until eviction; replaying its code is
// rejected as invalid.
func (s *verificationStore) MarkUsed(ctx context.Context, record *verificationRecord) error {
	key := s.key(record.Purpose, record.AccountID)

	pttl, err := s.redis.PTTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
	}
	if pttl <= 0 {
		return nil
	}

	record.Used = true
	encoded, err := encodeVerificationRecord(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, key, encoded, pttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errVerificationRedisUnavailable, err)
	}

	return nil
}

func encodeVerificationRecord(record *verificationRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(verificationRecordVersionV1)
	buf.WriteByte(byte(record.Purpose))
	if record.Used {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.AccountID) > 65535 {
		return nil, errors.New("verification record account id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.AccountID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.AccountID)

	if len(record.Code) > 65535 {
		return nil, errors.New("verification record code too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Code))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Code)

	return buf.Bytes(), nil
}

func decodeVerificationRecord(data []byte) (*verificationRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != verificationRecordVersionV1 {
		return nil, errors.New("invalid verification record version")
	}

	purpose, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	used, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &verificationRecord{
		Purpose: VerificationPurpose(purpose),
		Used:    used == 1,
	}

	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var accountIDLen uint16
	if err := binary.Read(reader, binary.BigEndian, &accountIDLen); err != nil {
		return nil, err
	}
	accountID := make([]byte, accountIDLen)
	if _, err := io.ReadFull(reader, accountID); err != nil {
		return nil, err
	}
	record.AccountID = string(accountID)

	var codeLen uint16
	if err := binary.Read(reader, binary.BigEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(reader, code); err != nil {
		return nil, err
	}
	record.Code = string(code)

	return record, nil
}
