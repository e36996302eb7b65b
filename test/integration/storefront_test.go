//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	cart "github.com/dmehra2102/Bookstore-Storefront/internal/cart/domain"
	catalogapp "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/application"
	catalogpg "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/infrastructure/postgres"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	checkout "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/messaging"
	checkoutpg "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/postgres"
	commentapp "github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	commentpg "github.com/dmehra2102/Bookstore-Storefront/internal/comment/infrastructure/postgres"
	notifierapp "github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
	notifierkafka "github.com/dmehra2102/Bookstore-Storefront/internal/notifier/infrastructure/kafka"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	platformkafka "github.com/dmehra2102/Bookstore-Storefront/internal/platform/kafka"
	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/postgres"
	ratingdomain "github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
	ratingpg "github.com/dmehra2102/Bookstore-Storefront/internal/rating/infrastructure/postgres"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/idempotency"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
)

type StorefrontSuite struct {
	suite.Suite
	env  *Env
	pool *pgxpool.Pool
}

func TestStorefrontSuite(t *testing.T) {
	suite.Run(t, new(StorefrontSuite))
}

func (s *StorefrontSuite) SetupSuite() {
	ctx := context.Background()
	env, err := Setup(ctx)
	s.Require().NoError(err)
	s.env = env

	s.Require().NoError(postgres.Migrate(env.PGURL))
	s.Require().NoError(postgres.Migrate(env.PGURL), "migrations are idempotent")
	s.pool, err = postgres.Open(ctx, env.PGURL)
	s.Require().NoError(err)
}

func (s *StorefrontSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.env != nil {
		s.env.Teardown(context.Background())
	}
}

func (s *StorefrontSuite) TestSeededCatalog() {
	cat := catalogapp.NewService(logging.Discard(), catalogpg.NewRepository(logging.Discard(), s.pool))
	snap, err := cat.Refresh(context.Background())
	s.Require().NoError(err)
	s.Equal(4, snap.Len())
	b, ok := cat.Book("1")
	s.Require().True(ok)
	s.Equal("29.99", b.Price.StringFixed(2))
}

func (s *StorefrontSuite) TestRatingUpsertConverges() {
	ctx := context.Background()
	repo := ratingpg.NewRepository(logging.Discard(), s.pool)
	rate := func(user string, v int) ratingdomain.Summary {
		sum, err := repo.Upsert(ctx, ratingdomain.Rating{BookID: "3", UserID: user, Value: v, UpdatedAt: time.Now()})
		s.Require().NoError(err)
		return sum
	}

	rate("a", 4)
	rate("b", 5)
	rate("c", 3)
	sum, err := repo.Summary(ctx, "3")
	s.Require().NoError(err)
	s.Equal(3, sum.Count)
	s.InDelta(4.0, *sum.Average, 1e-9)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, ratingdomain.Rating{BookID: "3", UserID: "a", Value: v%5 + 1, UpdatedAt: time.Now()})
			assert.NoError(s.T(), err)
		}(i)
	}
	wg.Wait()

	sum = rate("a", 1)
	s.Equal(3, sum.Count)
	s.InDelta(3.0, *sum.Average, 1e-9)

	empty, err := repo.Summary(ctx, "4")
	s.Require().NoError(err)
	s.Nil(empty.Average)
}

func (s *StorefrontSuite) TestCommentsListedByCreationTime() {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base.Add(time.Second), base.Add(3 * time.Second), base.Add(2 * time.Second)}
	i := 0
	svc := commentapp.NewService(logging.Discard(), commentpg.NewRepository(logging.Discard(), s.pool), &notify.Recorder{},
		commentapp.WithClock(func() time.Time { i++; return stamps[i-1] }))

	for _, text := range []string{"A", "C", "B"} {
		_, err := svc.Add(ctx, auth.Principal{UserID: "u1"}, "2", text)
		s.Require().NoError(err)
	}
	got, err := svc.List(ctx, "2")
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal([]string{"A", "B", "C"}, []string{got[0].Text, got[1].Text, got[2].Text})
}

func (s *StorefrontSuite) TestOrderIsPublishedAndMailed() {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	log := logging.Discard()
	topic := "order.events.test"

	cat := catalogapp.NewService(log, catalogpg.NewRepository(log, s.pool))
	_, err := cat.Refresh(ctx)
	s.Require().NoError(err)

	orders := checkoutpg.NewRepository(log, s.pool)
	d := checkoutapp.NewDispatcher(log, orders, messaging.WhatsApp{Number: "1"}, messaging.Email{Address: "x@y.z"}, &notify.Recorder{})
	sess := checkout.NewSession("sid", cat)
	sess.Edit(func(c *cart.Cart) {
		c.AddItem("1")
		c.AddItem("2")
	})
	user := auth.Principal{UserID: "buyer", Email: "buyer@example.com"}
	s.Require().NoError(d.StartCheckout(ctx, sess, user))
	out, err := d.PersistAndCheckout(ctx, sess, user, checkout.NewContact("buyer@example.com", "+20 100"))
	s.Require().NoError(err)

	o, err := orders.Get(ctx, out.OrderID)
	s.Require().NoError(err)
	s.Equal("64.98", o.Total.StringFixed(2))
	s.True(o.Total.Equal(o.ItemsTotal()))

	writer := platformkafka.NewWriter(s.env.KAddr)
	defer writer.Close()
	relay := outbox.NewRelay(log, postgres.NewOutboxStore(log, s.pool), outbox.NewDispatcher(log, writer, topic), "test-relay")
	s.Eventually(func() bool { return relay.Tick(ctx) > 0 }, 60*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: s.env.KAddr, Topic: topic, GroupID: "notifier-test"})
	defer reader.Close()
	msg, err := reader.FetchMessage(ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(s.env.RedisURL)
	s.Require().NoError(err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	mailer := &captureMailer{}
	idem := idempotency.NewStore(rdb, time.Minute)
	consumer := notifierkafka.NewConsumerWithReader(log, reader, notifierapp.NewService(log, mailer, "shop@example.com"), idem)
	s.Require().NoError(consumer.Handle(ctx, msg))
	s.Require().NoError(consumer.Handle(ctx, msg), "redelivery is a no-op")
	require.Len(s.T(), mailer.sent, 1)
	s.Equal("New Order #"+out.OrderID, mailer.sent[0].Subject)
}

type captureMailer struct{ sent []notifierapp.Message }

func (m *captureMailer) Send(_ context.Context, msg notifierapp.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}
