package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a BookingStore backed by a SQLite file.
type SQLiteStore struct {
	conn    *sql.DB
	writeMu sync.Mutex
	now     func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open bookings db: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping bookings db: %w", err)
	}
	s := &SQLiteStore{conn: conn, now: time.Now}
	if err := s.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("bookings database ready", "path", path)
	return s, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Seed inserts bookings whose PNR is not stored yet.
func (s *SQLiteStore) Seed(ctx context.Context, bookings []model.Booking) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed bookings: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO bookings
			(pnr, train_no, train_name, from_code, to_code, journey, status, class, coach, seat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("seed bookings: %w", err)
	}
	defer stmt.Close()

	for _, b := range bookings {
		if _, err := stmt.ExecContext(ctx, b.PNR, b.TrainNo, b.TrainName, b.From, b.To, b.Date, b.Status, b.Class, b.Coach, b.Seat); err != nil {
			return fmt.Errorf("seed booking %s: %w", b.PNR, err)
		}
	}
	return tx.Commit()
}

const bookingColumns = `pnr, train_no, train_name, from_code, to_code, journey, status, class, coach, seat`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.PNR, &b.TrainNo, &b.TrainName, &b.From, &b.To, &b.Date, &b.Status, &b.Class, &b.Coach, &b.Seat)
	return b, err
}

func (s *SQLiteStore) Recent(ctx context.Context) ([]model.Booking, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY journey DESC, pnr ASC`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ByPNR(ctx context.Context, pnr string) (model.Booking, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = ?`, pnr)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, model.NewError(model.NotFound, "store.ByPNR", nil)
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("query pnr %s: %w", pnr, err)
	}
	return b, nil
}

func (s *SQLiteStore) SaveDraft(ctx context.Context, d model.BookingDraft) (model.BookingDraft, error) {
	d.ID = uuid.NewString()
	d.Saved = true
	d.CreatedAt = s.now().UTC()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO drafts (id, train_no, from_code, to_code, journey, class, quota, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.TrainNo, d.From, d.To, d.Date, d.Class, d.Quota, d.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return model.BookingDraft{}, fmt.Errorf("insert draft: %w", err)
	}
	return d, nil
}

// Drafts lists saved drafts in save order.
func (s *SQLiteStore) Drafts(ctx context.Context) ([]model.BookingDraft, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, train_no, from_code, to_code, journey, class, quota, created_at
		FROM drafts ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var out []model.BookingDraft
	for rows.Next() {
		var d model.BookingDraft
		var created string
		if err := rows.Scan(&d.ID, &d.TrainNo, &d.From, &d.To, &d.Date, &d.Class, &d.Quota, &created); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		d.Saved = true
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
