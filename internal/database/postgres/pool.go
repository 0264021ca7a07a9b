package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/lotto/internal/database/generated"
	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/repository"
)

// PoolRepository implements repository.Pool for PostgreSQL
type PoolRepository struct {
	db *pgxpool.Pool
	q  *generated.Queries
}

// NewPoolRepository creates a new PoolRepository
func NewPoolRepository(db *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{
		db: db,
		q:  generated.New(db),
	}
}

// CreatePool inserts a new pool row
func (r *PoolRepository) CreatePool(ctx context.Context, pool *domain.Pool) error {
	cfg := pool.Config
	err := r.q.CreatePool(ctx, generated.CreatePoolParams{
		PoolID:               pool.ID,
		EntryFee:             numeric(cfg.EntryFee),
		IntervalMs:           cfg.Interval.Milliseconds(),
		Coordinator:          cfg.Coordinator.Bytes(),
		KeyHash:              cfg.KeyHash.Bytes(),
		SubscriptionID:       int64(cfg.SubscriptionID),
		RequestConfirmations: int32(cfg.RequestConfirmations),
		CallbackGasLimit:     int64(cfg.CallbackGasLimit),
		NumWords:             int32(cfg.NumWords),
		State:                string(pool.State),
		Balance:              numeric(pool.Balance),
		LastDrawAt:           timestamptz(pool.LastDrawAt),
		CreatedAt:            timestamptz(pool.CreatedAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrPoolAlreadyExists, pool.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	return nil
}

// GetPool returns the pool or domain.ErrPoolNotFound
func (r *PoolRepository) GetPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	row, err := r.q.GetPool(ctx, poolID)
	if err != nil {
		return nil, poolError(err, poolID)
	}
	return mapPool(row)
}

// GetParticipant returns the participant at index in entry order
func (r *PoolRepository) GetParticipant(ctx context.Context, poolID string, index int) (*domain.Participant, error) {
	if _, err := r.GetPool(ctx, poolID); err != nil {
		return nil, err
	}
	if index < 0 || index > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
	}
	row, err := r.q.GetParticipant(ctx, generated.GetParticipantParams{PoolID: poolID, Slot: int32(index)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrParticipantIndex, index)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipant, err)
	}
	return mapParticipant(row)
}

// ListParticipants returns the current round in entry order
func (r *PoolRepository) ListParticipants(ctx context.Context, poolID string) ([]domain.Participant, error) {
	return listParticipants(ctx, r.q, poolID)
}

// GetDraw returns one draw record
func (r *PoolRepository) GetDraw(ctx context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	return getDraw(ctx, r.q, poolID, requestID)
}

// ListDraws returns up to limit draws, most recently requested first. Request
// ids are not ordered in time when an external oracle issues them.
func (r *PoolRepository) ListDraws(ctx context.Context, poolID string, limit int) ([]domain.Draw, error) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = DefaultDrawListLimit
	}
	rows, err := r.q.ListDraws(ctx, generated.ListDrawsParams{PoolID: poolID, Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	out := make([]domain.Draw, 0, len(rows))
	for _, row := range rows {
		d, err := mapDraw(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
		}
		out = append(out, *d)
	}
	return out, nil
}

// GetAccount returns the account, or a zero-balance account for unknown addresses
func (r *PoolRepository) GetAccount(ctx context.Context, address common.Address) (*domain.Account, error) {
	row, err := r.q.GetAccount(ctx, address.Bytes())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Account{Address: address, Balance: new(big.Int)}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAccount, err)
	}
	bal, err := numericToBig(row.Balance)
	if err != nil {
		return nil, err
	}
	return &domain.Account{Address: address, Balance: bal, RejectsPayments: row.RejectsPayments}, nil
}

// SetPaymentPolicy marks whether the address refuses incoming payments
func (r *PoolRepository) SetPaymentPolicy(ctx context.Context, address common.Address, rejectsPayments bool) error {
	err := r.q.SetPaymentPolicy(ctx, generated.SetPaymentPolicyParams{
		Address:         address.Bytes(),
		RejectsPayments: rejectsPayments,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAccount, err)
	}
	return nil
}

// BeginPoolTx starts a transaction; GetPoolForUpdate takes the row lock
func (r *PoolRepository) BeginPoolTx(ctx context.Context) (repository.PoolTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	return &poolTx{
		tx: tx,
		q:  r.q.WithTx(tx),
	}, nil
}

// poolTx implements repository.PoolTx
type poolTx struct {
	tx pgx.Tx
	q  *generated.Queries
}

func (t *poolTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

func (t *poolTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

func (t *poolTx) GetPoolForUpdate(ctx context.Context, poolID string) (*domain.Pool, error) {
	row, err := t.q.GetPoolForUpdate(ctx, poolID)
	if err != nil {
		return nil, poolError(err, poolID)
	}
	return mapPool(generated.GetPoolRow(row))
}

func (t *poolTx) ListParticipants(ctx context.Context, poolID string) ([]domain.Participant, error) {
	return listParticipants(ctx, t.q, poolID)
}

// AddParticipant appends to the round; callers hold the pool row lock so the
// slot computation cannot race.
func (t *poolTx) AddParticipant(ctx context.Context, participant *domain.Participant) error {
	enteredAt := participant.EnteredAt
	if enteredAt.IsZero() {
		enteredAt = time.Now().UTC()
	}
	slot, err := t.q.AddParticipant(ctx, generated.AddParticipantParams{
		PoolID:    participant.PoolID,
		Address:   participant.Address.Bytes(),
		Value:     numeric(participant.Value),
		EnteredAt: timestamptz(enteredAt),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddParticipant, err)
	}
	participant.Index = int(slot)
	return nil
}

func (t *poolTx) ClearParticipants(ctx context.Context, poolID string) error {
	if err := t.q.ClearParticipants(ctx, poolID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToClearParticipants, err)
	}
	return nil
}

func (t *poolTx) UpdatePool(ctx context.Context, pool *domain.Pool) error {
	var pending pgtype.Int8
	if pool.PendingRequestID != nil {
		pending = pgtype.Int8{Int64: int64(*pool.PendingRequestID), Valid: true}
	}
	n, err := t.q.UpdatePool(ctx, generated.UpdatePoolParams{
		PoolID:           pool.ID,
		State:            string(pool.State),
		Balance:          numeric(pool.Balance),
		LastDrawAt:       timestamptz(pool.LastDrawAt),
		RecentWinner:     optionalAddress(pool.RecentWinner),
		PendingRequestID: pending,
		PendingSince:     optionalTimestamptz(pool.PendingSince),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePool, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, pool.ID)
	}
	return nil
}

func (t *poolTx) CreateDraw(ctx context.Context, draw *domain.Draw) error {
	err := t.q.CreateDraw(ctx, generated.CreateDrawParams{
		PoolID:          draw.PoolID,
		RequestID:       int64(draw.RequestID),
		Status:          string(draw.Status),
		NumParticipants: int32(draw.NumParticipants),
		Pot:             numeric(draw.Pot),
		RequestedAt:     timestamptz(draw.RequestedAt),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateDraw, err)
	}
	return nil
}

func (t *poolTx) UpdateDraw(ctx context.Context, draw *domain.Draw) error {
	n, err := t.q.UpdateDraw(ctx, generated.UpdateDrawParams{
		PoolID:      draw.PoolID,
		RequestID:   int64(draw.RequestID),
		Status:      string(draw.Status),
		ResolvedAt:  optionalTimestamptz(draw.ResolvedAt),
		Winner:      optionalAddress(draw.Winner),
		WinnerIndex: int32(draw.WinnerIndex),
		RandomWord:  optionalNumeric(draw.RandomWord),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDraw, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", domain.ErrDrawNotFound, draw.RequestID)
	}
	return nil
}

func (t *poolTx) GetDraw(ctx context.Context, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	return getDraw(ctx, t.q, poolID, requestID)
}

func (t *poolTx) CreditAccount(ctx context.Context, address common.Address, amount *big.Int, at time.Time) error {
	rejects, err := t.q.GetAccountPolicyForUpdate(ctx, address.Bytes())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAccount, err)
	}
	if rejects {
		return fmt.Errorf("%w: %s", domain.ErrPaymentRejected, address.Hex())
	}

	err = t.q.CreditAccount(ctx, generated.CreditAccountParams{
		Address:   address.Bytes(),
		Balance:   numeric(amount),
		UpdatedAt: timestamptz(at),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAccount, err)
	}
	return nil
}

func poolError(err error, poolID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrPoolNotFound, poolID)
	}
	return fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
}

func mapPool(row generated.GetPoolRow) (*domain.Pool, error) {
	pool := domain.Pool{
		ID: row.PoolID,
		Config: domain.PoolConfig{
			Interval:             time.Duration(row.IntervalMs) * time.Millisecond,
			Coordinator:          common.BytesToAddress(row.Coordinator),
			KeyHash:              common.BytesToHash(row.KeyHash),
			SubscriptionID:       uint64(row.SubscriptionID),
			RequestConfirmations: uint16(row.RequestConfirmations),
			CallbackGasLimit:     uint32(row.CallbackGasLimit),
			NumWords:             uint32(row.NumWords),
		},
		State:           domain.PoolState(row.State),
		NumParticipants: int(row.NumParticipants),
		LastDrawAt:      row.LastDrawAt.Time,
		PendingSince:    ptrTime(row.PendingSince),
		CreatedAt:       row.CreatedAt.Time,
	}
	var err error
	if pool.Config.EntryFee, err = numericToBig(row.EntryFee); err != nil {
		return nil, err
	}
	if pool.Balance, err = numericToBig(row.Balance); err != nil {
		return nil, err
	}
	if row.RecentWinner != nil {
		pool.RecentWinner = common.BytesToAddress(row.RecentWinner)
	}
	if row.PendingRequestID.Valid {
		id := domain.RequestID(row.PendingRequestID.Int64)
		pool.PendingRequestID = &id
	}
	return &pool, nil
}

func listParticipants(ctx context.Context, q *generated.Queries, poolID string) ([]domain.Participant, error) {
	rows, err := q.ListParticipants(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListParticipants, err)
	}
	out := make([]domain.Participant, 0, len(rows))
	for _, row := range rows {
		p, err := mapParticipant(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListParticipants, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func mapParticipant(row generated.PoolParticipant) (*domain.Participant, error) {
	v, err := numericToBig(row.Value)
	if err != nil {
		return nil, err
	}
	return &domain.Participant{
		PoolID:    row.PoolID,
		Index:     int(row.Slot),
		Address:   common.BytesToAddress(row.Address),
		Value:     v,
		EnteredAt: row.EnteredAt.Time,
	}, nil
}

func getDraw(ctx context.Context, q *generated.Queries, poolID string, requestID domain.RequestID) (*domain.Draw, error) {
	row, err := q.GetDraw(ctx, generated.GetDrawParams{PoolID: poolID, RequestID: int64(requestID)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrDrawNotFound, requestID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDraw, err)
	}
	return mapDraw(row)
}

func mapDraw(row generated.Draw) (*domain.Draw, error) {
	d := domain.Draw{
		PoolID:          row.PoolID,
		RequestID:       domain.RequestID(row.RequestID),
		Status:          domain.DrawStatus(row.Status),
		NumParticipants: int(row.NumParticipants),
		RequestedAt:     row.RequestedAt.Time,
		ResolvedAt:      ptrTime(row.ResolvedAt),
		WinnerIndex:     int(row.WinnerIndex),
	}
	var err error
	if d.Pot, err = numericToBig(row.Pot); err != nil {
		return nil, err
	}
	if row.Winner != nil {
		d.Winner = common.BytesToAddress(row.Winner)
	}
	if row.RandomWord.Valid {
		if d.RandomWord, err = numericToBig(row.RandomWord); err != nil {
			return nil, err
		}
	}
	return &d, nil
}
