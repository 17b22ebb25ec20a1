package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var checkoutColumns = []string{
	"id", "user_id", "state", "selected_address_id", "has_quote", "quote_name",
	"quote_cost", "quote_carbon", "payment_method", "shipping_confirmed",
	"last_error", "order_id", "created_at", "updated_at",
}

func TestGormCheckoutSessionRepositoryFind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckoutSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `checkout_sessions`")).
		WillReturnRows(sqlmock.NewRows(checkoutColumns).AddRow(
			"sess-1", "7", "payment_ready", "12", true, "Standard",
			"50.00", "0.5000", "card", true, "", "", now, now,
		))

	session, err := repo.Find(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, models.CheckoutPaymentReady, session.State)
	assert.True(t, session.ShippingConfirmed)
	assert.True(t, session.QuoteCost.Equal(decimal.NewFromInt(50)))

	quote, ok := session.Quote()
	assert.True(t, ok)
	assert.Equal(t, "Standard", quote.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutSessionRepositoryFindMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckoutSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `checkout_sessions`")).
		WillReturnRows(sqlmock.NewRows(checkoutColumns))

	session, err := repo.Find(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutSessionRepositorySave(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckoutSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `checkout_sessions`")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	session := models.NewCheckoutSession("sess-1", "7")
	require.NoError(t, repo.Save(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutSessionRepositoryDeleteStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckoutSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `checkout_sessions` WHERE updated_at <")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteStale(context.Background(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryCheckoutSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCheckoutSessionRepository()

	missing, err := repo.Find(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	session := models.NewCheckoutSession("sess-1", "7")
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.Find(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.CheckoutNoAddress, found.State)

	found.State = models.CheckoutPaymentReady
	again, _ := repo.Find(ctx, "sess-1")
	assert.Equal(t, models.CheckoutNoAddress, again.State, "stored value must not alias the caller's copy")

	require.NoError(t, repo.Delete(ctx, "sess-1"))
	gone, _ := repo.Find(ctx, "sess-1")
	assert.Nil(t, gone)

	assert.Error(t, repo.Save(ctx, &models.CheckoutSession{}))
}

func TestMemoryCheckoutSessionRepositoryDeleteStale(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCheckoutSessionRepository()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Save(ctx, models.NewCheckoutSession("old", "1")))

	repo.now = func() time.Time { return base.Add(3 * time.Hour) }
	require.NoError(t, repo.Save(ctx, models.NewCheckoutSession("fresh", "2")))

	removed, err := repo.DeleteStale(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	fresh, _ := repo.Find(ctx, "fresh")
	assert.NotNil(t, fresh)
}
