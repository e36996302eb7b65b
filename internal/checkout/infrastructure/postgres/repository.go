package postgres

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/postgres"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) SaveWithOutbox(ctx context.Context, o domain.Order, ev outbox.Record) error {
	contact, err := json.Marshal(o.Contact)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, user_id, total_amount, shipping_address, channel, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.UserID, o.Total, contact, string(o.Channel), string(o.Status), o.CreatedAt)
	if err != nil {
		r.log.Error("order insert", "order_id", o.ID, "err", postgres.Describe(err))
		return err
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, book_id, title, quantity, price_at_time) VALUES ($1,$2,$3,$4,$5)`,
			o.ID, it.BookID, it.Title, it.Quantity, it.PriceAtTime)
	}
	if o.Contact.Phone != "" {
		batch.Queue(`INSERT INTO profiles (user_id, phone_number, updated_at) VALUES ($1,$2,now())
			ON CONFLICT (user_id) DO UPDATE SET phone_number=EXCLUDED.phone_number, updated_at=now()`,
			o.UserID, o.Contact.Phone)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("order items insert", "order_id", o.ID, "err", postgres.Describe(err))
		return err
	}

	if err = postgres.InsertOutbox(ctx, tx, ev); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get loads an order with its items.
func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var contact []byte
	var channel, status string
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, total_amount, shipping_address, channel, status, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.Total, &contact, &channel, &status, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Channel = domain.Channel(channel)
	o.Status = domain.OrderStatus(status)
	if err := json.Unmarshal(contact, &o.Contact); err != nil {
		return domain.Order{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT book_id, title, quantity, price_at_time FROM order_items WHERE order_id=$1 ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.BookID, &it.Title, &it.Quantity, &it.PriceAtTime); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}
