package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
)

type Repository struct {
	log *slog.Logger
	db  *sql.DB
}

func NewRepository(log *slog.Logger, db *sql.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) SaveWithOutbox(ctx context.Context, o domain.Order, ev outbox.Record) error {
	contact, err := json.Marshal(o.Contact)
	if err != nil {
		return err
	}
	headers, err := json.Marshal(ev.Headers)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO orders(id, user_id, total_amount, shipping_address, channel, status, created_unix_nano)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID.String(), o.UserID, o.Total.StringFixed(2), string(contact), string(o.Channel), string(o.Status), o.CreatedAt.UnixNano())
	if err != nil {
		r.log.Error("order insert", "order_id", o.ID, "err", err)
		return err
	}
	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, `INSERT INTO order_items(order_id, book_id, title, quantity, price_at_time) VALUES (?, ?, ?, ?, ?)`,
			o.ID.String(), it.BookID, it.Title, it.Quantity, it.PriceAtTime.StringFixed(2))
		if err != nil {
			r.log.Error("order item insert", "order_id", o.ID, "book_id", it.BookID, "err", err)
			return err
		}
	}
	if o.Contact.Phone != "" {
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles(user_id, phone_number, updated_unix) VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET phone_number=excluded.phone_number, updated_unix=excluded.updated_unix`,
			o.UserID, o.Contact.Phone, time.Now().Unix())
		if err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO outbox(aggregate_type, aggregate_id, type, payload, headers, traceparent, status, created_unix_nano)
		VALUES (?, ?, ?, ?, ?, ?, 'pending', ?)`,
		ev.AggregateType, ev.AggregateID, ev.Type, ev.Payload, string(headers), ev.Traceparent, time.Now().UnixNano())
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var oid, total, contact, channel, status string
	var nanos int64
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, total_amount, shipping_address, channel, status, created_unix_nano FROM orders WHERE id=?`, id).
		Scan(&oid, &o.UserID, &total, &contact, &channel, &status, &nanos)
	if err != nil {
		return domain.Order{}, err
	}
	if o.ID, err = uuid.Parse(oid); err != nil {
		return domain.Order{}, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, err
	}
	if err = json.Unmarshal([]byte(contact), &o.Contact); err != nil {
		return domain.Order{}, err
	}
	o.Channel = domain.Channel(channel)
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = time.Unix(0, nanos).UTC()

	rows, err := r.db.QueryContext(ctx, `SELECT book_id, title, quantity, price_at_time FROM order_items WHERE order_id=? ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		var price string
		if err := rows.Scan(&it.BookID, &it.Title, &it.Quantity, &price); err != nil {
			return domain.Order{}, err
		}
		if it.PriceAtTime, err = decimal.NewFromString(price); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// Count returns how many orders are stored for userID.
func (r *Repository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id=?`, userID).Scan(&n)
	return n, err
}
