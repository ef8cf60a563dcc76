// Package infra contains infrastructure adapters for the ping-pong context.
package infra

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	_ "github.com/glebarez/go-sqlite"
	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
)

// Journal persists the order history in SQLite so a restart resumes the
// alternation instead of starting over. One row per order, upserted on
// every change.
type Journal struct {
	db *sql.DB
}

// NewJournal opens (or creates) the journal database at path.
func NewJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.New")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.New: "+pragma)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			strategy_id TEXT NOT NULL,
			executed    INTEGER NOT NULL DEFAULT 0,
			payload     TEXT NOT NULL,
			updated_at  INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.New: create table")
	}

	return &Journal{db: db}, nil
}

// Upsert writes the order's current shape, inserting on first sight.
func (j *Journal) Upsert(ctx context.Context, o domain.Order) error {
	payload, err := json.Marshal(toRecord(o))
	if err != nil {
		return apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Upsert: marshal")
	}

	executed := 0
	if o.IsExecuted {
		executed = 1
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO orders (id, strategy_id, executed, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			executed = excluded.executed,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		o.ID, o.StrategyID, executed, payload, time.Now().UnixMilli(),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Upsert")
	}
	return nil
}

// Delete removes an order row, mirroring a reset that dropped it.
func (j *Journal) Delete(ctx context.Context, id string) error {
	_, err := j.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Delete")
	}
	return nil
}

// Load returns all persisted orders in insertion order.
func (j *Journal) Load(ctx context.Context) ([]domain.Order, error) {
	rows, err := j.db.QueryContext(ctx, "SELECT payload FROM orders ORDER BY seq ASC")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Load")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Load: scan")
		}

		var rec orderRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal.Load: unmarshal")
		}

		order, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// orderRecord is the JSON shape stored in the payload column. Amounts
// are decimal strings to survive any integer width.
type orderRecord struct {
	ID               string    `json:"id"`
	StrategyID       string    `json:"strategyId"`
	Direction        string    `json:"direction"`
	Type             string    `json:"type"`
	SizeInt          string    `json:"sizeInt"`
	InTokenMint      string    `json:"inTokenMint"`
	OutTokenMint     string    `json:"outTokenMint"`
	InTokenSymbol    string    `json:"inTokenSymbol"`
	OutTokenSymbol   string    `json:"outTokenSymbol"`
	InTokenDecimals  uint8     `json:"inTokenDecimals"`
	OutTokenDecimals uint8     `json:"outTokenDecimals"`
	Price            string    `json:"price"`
	DesiredOutAmount string    `json:"desiredOutAmount"`
	SlippageBps      int       `json:"slippageBps"`
	IsExecuted       bool      `json:"isExecuted"`
	OutAmountInt     string    `json:"outAmountInt,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	ExecutedAt       time.Time `json:"executedAt,omitempty"`
}

func toRecord(o domain.Order) orderRecord {
	rec := orderRecord{
		ID:               o.ID,
		StrategyID:       o.StrategyID,
		Direction:        o.Direction.String(),
		Type:             o.Type,
		SizeInt:          o.SizeInt.String(),
		InTokenMint:      o.InTokenMint.String(),
		OutTokenMint:     o.OutTokenMint.String(),
		InTokenSymbol:    o.InTokenSymbol,
		OutTokenSymbol:   o.OutTokenSymbol,
		InTokenDecimals:  o.InTokenDecimals,
		OutTokenDecimals: o.OutTokenDecimals,
		Price:            o.Price.String(),
		DesiredOutAmount: o.DesiredOutAmount.String(),
		SlippageBps:      o.SlippageBps,
		IsExecuted:       o.IsExecuted,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		ExecutedAt:       o.ExecutedAt,
	}
	if o.OutAmountInt != nil {
		rec.OutAmountInt = o.OutAmountInt.String()
	}
	return rec
}

func (r orderRecord) toOrder() (domain.Order, error) {
	sizeInt, ok := new(big.Int).SetString(r.SizeInt, 10)
	if !ok {
		return domain.Order{}, apperror.Internal(apperror.CodeJournalWriteFailed, "journal: bad size "+r.SizeInt, nil)
	}

	var outAmountInt *big.Int
	if r.OutAmountInt != "" {
		outAmountInt, ok = new(big.Int).SetString(r.OutAmountInt, 10)
		if !ok {
			return domain.Order{}, apperror.Internal(apperror.CodeJournalWriteFailed, "journal: bad out amount "+r.OutAmountInt, nil)
		}
	}
	// Executed fills feed profit baselines, so a missing or zero out
	// amount is corrupt data, not an empty field.
	if r.IsExecuted && (outAmountInt == nil || outAmountInt.Sign() <= 0) {
		return domain.Order{}, apperror.Internal(apperror.CodeJournalWriteFailed, "journal: executed order "+r.ID+" without fill amount", nil)
	}

	inMint, err := solana.PublicKeyFromBase58(r.InTokenMint)
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal: in mint")
	}
	outMint, err := solana.PublicKeyFromBase58(r.OutTokenMint)
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal: out mint")
	}

	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal: price")
	}
	desiredOut, err := decimal.NewFromString(r.DesiredOutAmount)
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.CodeJournalWriteFailed, "journal: desired out")
	}

	return domain.Order{
		ID:               r.ID,
		StrategyID:       r.StrategyID,
		Direction:        domain.Direction(r.Direction),
		Type:             r.Type,
		SizeInt:          sizeInt,
		Size:             decimal.NewFromBigInt(sizeInt, -int32(r.InTokenDecimals)),
		InTokenMint:      inMint,
		OutTokenMint:     outMint,
		InTokenSymbol:    r.InTokenSymbol,
		OutTokenSymbol:   r.OutTokenSymbol,
		InTokenDecimals:  r.InTokenDecimals,
		OutTokenDecimals: r.OutTokenDecimals,
		Price:            price,
		DesiredOutAmount: desiredOut,
		SlippageBps:      r.SlippageBps,
		IsExecuted:       r.IsExecuted,
		OutAmountInt:     outAmountInt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		ExecutedAt:       r.ExecutedAt,
	}, nil
}
