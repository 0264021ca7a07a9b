// Package bolt implements the pool ledger on an embedded bbolt file. bbolt
// allows a single writer at a time, which serializes every pool mutation.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.etcd.io/bbolt"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/repository"
)

var (
	bucketPools        = []byte("pools")
	bucketParticipants = []byte("participants")
	bucketDraws        = []byte("draws")
	bucketAccounts     = []byte("accounts")
)

// Store implements repository.Pool on top of bbolt
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bbolt.Open(path, FileMode, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgOpenFailed, path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPools, bucketParticipants, bucketDraws, bucketAccounts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgInitBuckets, err)
	}

	return &Store{db: db}, nil
}

// Close releases the database file
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the file can still be read
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketPools) == nil {
			return errors.New(ErrMsgInitBuckets)
		}
		return nil
	})
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.db.Path()
}

// CreatePool stores a new pool
func (s *Store) CreatePool(_ context.Context, pool *domain.Pool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPools)
		if b.Get([]byte(pool.ID)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrPoolAlreadyExists, pool.ID)
		}
		if err := putJSON(b, []byte(pool.ID), pool); err != nil {
			return err
		}
		if _, err := tx.Bucket(bucketParticipants).CreateBucketIfNotExists([]byte(pool.ID)); err != nil {
			return err
		}
		_, err := tx.Bucket(bucketDraws).CreateBucketIfNotExists([]byte(pool.ID))
		return err
	})
}

// GetPool returns the pool or domain.ErrPoolNotFound
func (s *Store) GetPool(_ context.Context, poolID string) (*domain.Pool, error) {
	var pool *domain.Pool
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		pool, err = readPool(tx, poolID)
		return err
	})
	return pool, err
}

// GetParticipant returns the participant at index in entry order
func (s *Store) GetParticipant(_ context.Context, poolID string, index int) (*domain.Participant, error) {
	var p *domain.Participant
	err := s.db.View(func(tx *bbolt.Tx) error {
		if _, err := readPool(tx, poolID); err != nil {
			return err
		}
		if index < 0 {
			return fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
		}
		b := participantBucket(tx, poolID)
		if b == nil {
			return fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
		}
		raw := b.Get(itob(uint64(index)))
		if raw == nil {
			return fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
		}
		p = &domain.Participant{}
		return json.Unmarshal(raw, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListParticipants returns the current round in entry order
func (s *Store) ListParticipants(_ context.Context, poolID string) ([]domain.Participant, error) {
	var out []domain.Participant
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = listParticipants(tx, poolID)
		return err
	})
	return out, err
}

// GetDraw returns one draw record
func (s *Store) GetDraw(_ context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	var d *domain.Draw
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		d, err = readDraw(tx, poolID, requestID)
		return err
	})
	return d, err
}

// ListDraws returns up to limit draws, most recently requested first. Keys are
// request ids, which an external oracle does not issue in time order, so the
// whole pool history is read and sorted.
func (s *Store) ListDraws(_ context.Context, poolID string, limit int) ([]domain.Draw, error) {
	var out []domain.Draw
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDraws).Bucket([]byte(poolID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var d domain.Draw
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			out = append(out, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].RequestID > out[j].RequestID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetAccount returns the account, or a zero-balance account for unknown addresses
func (s *Store) GetAccount(_ context.Context, address common.Address) (*domain.Account, error) {
	var acc *domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		acc, err = readAccount(tx, address)
		return err
	})
	return acc, err
}

// SetPaymentPolicy marks whether the address refuses incoming payments
func (s *Store) SetPaymentPolicy(_ context.Context, address common.Address, rejectsPayments bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		acc, err := readAccount(tx, address)
		if err != nil {
			return err
		}
		acc.RejectsPayments = rejectsPayments
		return putJSON(tx.Bucket(bucketAccounts), address.Bytes(), acc)
	})
}

// BeginPoolTx starts a writable transaction. bbolt blocks until any other
// writer has finished.
func (s *Store) BeginPoolTx(ctx context.Context) (repository.PoolTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := s.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	return &poolTx{tx: tx}, nil
}

type poolTx struct {
	tx *bbolt.Tx
}

func (t *poolTx) Commit(_ context.Context) error {
	if err := t.tx.Commit(); err != nil {
		if errors.Is(err, bbolt.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

func (t *poolTx) Rollback(_ context.Context) error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, bbolt.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

// GetPoolForUpdate reads the pool inside the writer; bbolt already holds the
// exclusive write lock for the lifetime of the tx.
func (t *poolTx) GetPoolForUpdate(_ context.Context, poolID string) (*domain.Pool, error) {
	return readPool(t.tx, poolID)
}

func (t *poolTx) ListParticipants(_ context.Context, poolID string) ([]domain.Participant, error) {
	return listParticipants(t.tx, poolID)
}

func (t *poolTx) AddParticipant(_ context.Context, participant *domain.Participant) error {
	b, err := t.tx.Bucket(bucketParticipants).CreateBucketIfNotExists([]byte(participant.PoolID))
	if err != nil {
		return err
	}
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	participant.Index = int(seq - 1)
	return putJSON(b, itob(uint64(participant.Index)), participant)
}

func (t *poolTx) ClearParticipants(_ context.Context, poolID string) error {
	parent := t.tx.Bucket(bucketParticipants)
	if parent.Bucket([]byte(poolID)) != nil {
		if err := parent.DeleteBucket([]byte(poolID)); err != nil {
			return err
		}
	}
	_, err := parent.CreateBucket([]byte(poolID))
	return err
}

func (t *poolTx) UpdatePool(_ context.Context, pool *domain.Pool) error {
	b := t.tx.Bucket(bucketPools)
	if b.Get([]byte(pool.ID)) == nil {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, pool.ID)
	}
	return putJSON(b, []byte(pool.ID), pool)
}

func (t *poolTx) CreateDraw(_ context.Context, draw *domain.Draw) error {
	b, err := t.tx.Bucket(bucketDraws).CreateBucketIfNotExists([]byte(draw.PoolID))
	if err != nil {
		return err
	}
	return putJSON(b, itob(uint64(draw.RequestID)), draw)
}

func (t *poolTx) UpdateDraw(_ context.Context, draw *domain.Draw) error {
	b := t.tx.Bucket(bucketDraws).Bucket([]byte(draw.PoolID))
	if b == nil || b.Get(itob(uint64(draw.RequestID))) == nil {
		return fmt.Errorf("%w: %d", domain.ErrDrawNotFound, draw.RequestID)
	}
	return putJSON(b, itob(uint64(draw.RequestID)), draw)
}

func (t *poolTx) GetDraw(_ context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	return readDraw(t.tx, poolID, requestID)
}

func (t *poolTx) CreditAccount(_ context.Context, address common.Address, amount *big.Int, _ time.Time) error {
	acc, err := readAccount(t.tx, address)
	if err != nil {
		return err
	}
	if acc.RejectsPayments {
		return fmt.Errorf("%w: %s", domain.ErrPaymentRejected, address.Hex())
	}
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	return putJSON(t.tx.Bucket(bucketAccounts), address.Bytes(), acc)
}

func readPool(tx *bbolt.Tx, poolID string) (*domain.Pool, error) {
	raw := tx.Bucket(bucketPools).Get([]byte(poolID))
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, poolID)
	}
	var pool domain.Pool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeRecord, err)
	}
	if pool.Balance == nil {
		pool.Balance = new(big.Int)
	}
	return &pool, nil
}

func readDraw(tx *bbolt.Tx, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	b := tx.Bucket(bucketDraws).Bucket([]byte(poolID))
	if b == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrDrawNotFound, requestID)
	}
	raw := b.Get(itob(uint64(requestID)))
	if raw == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrDrawNotFound, requestID)
	}
	var d domain.Draw
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeRecord, err)
	}
	return &d, nil
}

func readAccount(tx *bbolt.Tx, address common.Address) (*domain.Account, error) {
	raw := tx.Bucket(bucketAccounts).Get(address.Bytes())
	if raw == nil {
		return &domain.Account{Address: address, Balance: new(big.Int)}, nil
	}
	var acc domain.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeRecord, err)
	}
	if acc.Balance == nil {
		acc.Balance = new(big.Int)
	}
	return &acc, nil
}

func listParticipants(tx *bbolt.Tx, poolID string) ([]domain.Participant, error) {
	b := participantBucket(tx, poolID)
	if b == nil {
		return nil, nil
	}
	var out []domain.Participant
	err := b.ForEach(func(_, v []byte) error {
		var p domain.Participant
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func participantBucket(tx *bbolt.Tx, poolID string) *bbolt.Bucket {
	return tx.Bucket(bucketParticipants).Bucket([]byte(poolID))
}

func putJSON(b *bbolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgEncodeRecord, err)
	}
	return b.Put(key, data)
}

// itob encodes keys big-endian so cursor order matches numeric order
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
