package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/natalia-kut/OnlineShop/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	u := models.User{ID: "u1", Email: "u1@example.com"}
	require.NoError(t, db.Create(&u).Error)

	o := models.Order{
		UserID:     "u1",
		Status:     models.OrderStatusNew,
		TotalPrice: decimal.NewFromFloat(25.00),
		Version:    1,
	}
	require.NoError(t, db.Create(&o).Error)

	items := []models.OrderItem{
		{OrderID: o.ID, ProductName: "Mug", Quantity: 2, UnitPrice: decimal.NewFromFloat(10.00)},
		{OrderID: o.ID, ProductName: "Plate", Quantity: 1, UnitPrice: decimal.NewFromFloat(5.00)},
	}
	require.NoError(t, db.Create(&items).Error)
	return o
}

func TestEditItemsRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	o := seedOrder(t, db)

	current, err := svc.Get(o.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 2)

	var mugLine models.OrderItem
	for _, it := range current.Items {
		if it.ProductName == "Mug" {
			mugLine = it
		}
	}
	edits := []ItemEdit{
		// Keep the mug line but bump its quantity; dropping the plate line
		// from the list removes it; the third entry is a brand new line.
		{ID: mugLine.ID, Quantity: 3, UnitPrice: mugLine.UnitPrice, Notes: "replacement sent"},
		{Quantity: 1, UnitPrice: decimal.NewFromFloat(2.50), Notes: "goodwill discount item"},
	}

	updated, err := svc.EditItems(o.ID, current.Version, "corrected", edits)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	require.True(t, updated.TotalPrice.Equal(decimal.NewFromFloat(32.50)), "got %s", updated.TotalPrice)
	require.Equal(t, "corrected", updated.Status)
	require.Equal(t, current.Version+1, updated.Version)

	byName := map[string]models.OrderItem{}
	for _, it := range updated.Items {
		byName[it.ProductName] = it
	}
	require.Equal(t, 3, byName["Mug"].Quantity)
	require.Equal(t, "replacement sent", byName["Mug"].Notes)
	_, plateStillThere := byName["Plate"]
	require.False(t, plateStillThere)
}

func TestEditItemsStaleVersionConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	o := seedOrder(t, db)

	current, err := svc.Get(o.ID)
	require.NoError(t, err)

	_, err = svc.EditItems(o.ID, current.Version, "", []ItemEdit{
		{ID: current.Items[0].ID, Quantity: 5, UnitPrice: current.Items[0].UnitPrice},
		{ID: current.Items[1].ID, Quantity: 1, UnitPrice: current.Items[1].UnitPrice},
	})
	require.NoError(t, err)

	// A second editor still holding the old version must fail, not
	// silently overwrite.
	_, err = svc.EditItems(o.ID, current.Version, "", []ItemEdit{
		{ID: current.Items[0].ID, Quantity: 1, UnitPrice: current.Items[0].UnitPrice},
	})
	require.ErrorIs(t, err, models.ErrConflict)

	// The first edit's result survived.
	after, err := svc.Get(o.ID)
	require.NoError(t, err)
	require.Len(t, after.Items, 2)
}

func TestEditItemsNeverTouchesStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	o := seedOrder(t, db)

	p := models.Product{Name: "Bowl", Price: decimal.NewFromFloat(7.00), Stock: 4}
	require.NoError(t, db.Create(&p).Error)

	current, err := svc.Get(o.ID)
	require.NoError(t, err)

	productID := p.ID
	_, err = svc.EditItems(o.ID, current.Version, "", []ItemEdit{
		{ID: current.Items[0].ID, Quantity: 2, UnitPrice: current.Items[0].UnitPrice},
		{ProductID: &productID, Quantity: 3, UnitPrice: p.Price},
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", p.ID).Error)
	require.Equal(t, 4, reloaded.Stock)
}

func TestEditItemsSnapshotsProductForNewLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	o := seedOrder(t, db)

	p := models.Product{Name: "Bowl", Price: decimal.NewFromFloat(7.00), Stock: 4, ImageURL: "/img/bowl"}
	require.NoError(t, db.Create(&p).Error)

	current, err := svc.Get(o.ID)
	require.NoError(t, err)

	productID := p.ID
	updated, err := svc.EditItems(o.ID, current.Version, "", []ItemEdit{
		{ID: current.Items[0].ID, Quantity: current.Items[0].Quantity, UnitPrice: current.Items[0].UnitPrice},
		{ID: current.Items[1].ID, Quantity: current.Items[1].Quantity, UnitPrice: current.Items[1].UnitPrice},
		{ProductID: &productID, Quantity: 1, UnitPrice: p.Price},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 3)

	var added models.OrderItem
	for _, it := range updated.Items {
		if it.ProductName == "Bowl" {
			added = it
		}
	}
	require.Equal(t, "/img/bowl", added.ProductImage)
	require.NotNil(t, added.ProductID)
}

func TestDeleteRemovesOrderAndItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	o := seedOrder(t, db)

	require.NoError(t, svc.Delete(o.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.Zero(t, orderCount)
	require.Zero(t, itemCount)
}
