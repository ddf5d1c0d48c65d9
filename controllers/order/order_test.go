package orderControllers

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Comment{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("fetch product %d: %v", id, err)
	}
	return p.Stock
}

func seedUserWithCart(t *testing.T, db *gorm.DB, lines map[*models.Product]int) *models.User {
	t.Helper()
	user := models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	cart := models.Cart{UserID: user.ID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart: %v", err)
	}
	for product, qty := range lines {
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("create product: %v", err)
		}
		item := models.CartItem{
			CartID:    cart.CartID,
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  qty,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("create cart item: %v", err)
		}
	}
	return &user
}

func TestCheckout(t *testing.T) {
	t.Run("order mirrors cart and stock decreases", func(t *testing.T) {
		db := openTestDB(t)
		keyboard := &models.Product{Name: "Keyboard", Price: 49.90, Stock: 10}
		mouse := &models.Product{Name: "Mouse", Price: 19.90, Stock: 3}
		user := seedUserWithCart(t, db, map[*models.Product]int{keyboard: 2, mouse: 3})

		order, err := Checkout(db, user.ID)
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if order.Status != models.OrderStatusCreated {
			t.Errorf("status = %q, want %q", order.Status, models.OrderStatusCreated)
		}
		if order.OrderRef == "" {
			t.Error("expected a non-empty order ref")
		}
		if len(order.Items) != 2 {
			t.Fatalf("order items = %d, want 2", len(order.Items))
		}

		wantTotal := 49.90*2 + 19.90*3
		if order.TotalAmount != wantTotal {
			t.Errorf("total = %v, want %v", order.TotalAmount, wantTotal)
		}

		byProduct := make(map[uint]models.OrderItem)
		for _, item := range order.Items {
			byProduct[item.ProductID] = item
		}
		if got := byProduct[keyboard.ID]; got.Quantity != 2 || got.Price != 49.90 {
			t.Errorf("keyboard line = %+v, want qty 2 price 49.90", got)
		}
		if got := byProduct[mouse.ID]; got.Quantity != 3 || got.Price != 19.90 {
			t.Errorf("mouse line = %+v, want qty 3 price 19.90", got)
		}

		if got := productStock(t, db, keyboard.ID); got != 8 {
			t.Errorf("keyboard stock = %d, want 8", got)
		}
		if got := productStock(t, db, mouse.ID); got != 0 {
			t.Errorf("mouse stock = %d, want 0", got)
		}

		// Cart is cleared but the cart row survives
		var items int64
		db.Model(&models.CartItem{}).Count(&items)
		if items != 0 {
			t.Errorf("cart items left = %d, want 0", items)
		}
		var carts int64
		db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts)
		if carts != 1 {
			t.Errorf("cart rows = %d, want 1", carts)
		}
	})

	t.Run("insufficient stock on one line rolls back everything", func(t *testing.T) {
		db := openTestDB(t)
		keyboard := &models.Product{Name: "Keyboard", Price: 49.90, Stock: 10}
		mouse := &models.Product{Name: "Mouse", Price: 19.90, Stock: 1}
		user := seedUserWithCart(t, db, map[*models.Product]int{keyboard: 2, mouse: 3})

		_, err := Checkout(db, user.ID)
		var apiErr *apierror.ApiError
		if !errors.As(err, &apiErr) || apiErr.Code != apierror.CodeInsufficientStock {
			t.Fatalf("err = %v, want insufficient stock", err)
		}

		var orders int64
		db.Model(&models.Order{}).Count(&orders)
		if orders != 0 {
			t.Errorf("orders = %d, want 0", orders)
		}

		// No stock change survives, keyboard included
		if got := productStock(t, db, keyboard.ID); got != 10 {
			t.Errorf("keyboard stock = %d, want 10", got)
		}
		if got := productStock(t, db, mouse.ID); got != 1 {
			t.Errorf("mouse stock = %d, want 1", got)
		}

		var items int64
		db.Model(&models.CartItem{}).Count(&items)
		if items != 2 {
			t.Errorf("cart items = %d, want 2 untouched", items)
		}
	})

	t.Run("empty cart fails without side effects", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUserWithCart(t, db, nil)

		_, err := Checkout(db, user.ID)
		var apiErr *apierror.ApiError
		if !errors.As(err, &apiErr) || apiErr.Code != apierror.CodeCartEmpty {
			t.Fatalf("err = %v, want cart empty", err)
		}

		var orders int64
		db.Model(&models.Order{}).Count(&orders)
		if orders != 0 {
			t.Errorf("orders = %d, want 0", orders)
		}
	})

	t.Run("line added during checkout keeps its reservation", func(t *testing.T) {
		db := openTestDB(t)
		keyboard := &models.Product{Name: "Keyboard", Price: 49.90, Stock: 10}
		user := seedUserWithCart(t, db, map[*models.Product]int{keyboard: 2})

		var cart models.Cart
		if err := db.First(&cart, "user_id = ?", user.ID).Error; err != nil {
			t.Fatalf("fetch cart: %v", err)
		}

		// Slip a new line into the cart after the order row is written,
		// standing in for an add-to-cart that lands between the cart
		// snapshot and the clear step.
		injected := false
		err := db.Callback().Create().After("gorm:create").Register("inject_line", func(tx *gorm.DB) {
			if injected {
				return
			}
			if _, ok := tx.Statement.Dest.(*models.Order); !ok {
				return
			}
			injected = true
			line := models.CartItem{
				CartID:    cart.CartID,
				ProductID: keyboard.ID,
				UnitPrice: keyboard.Price,
				Quantity:  1,
				AddedAt:   time.Now(),
			}
			if err := tx.Session(&gorm.Session{NewDB: true}).Create(&line).Error; err != nil {
				t.Errorf("inject line: %v", err)
			}
		})
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}

		order, err := Checkout(db, user.ID)
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if !injected {
			t.Fatal("injection never ran")
		}
		if len(order.Items) != 1 {
			t.Fatalf("order items = %d, want only the snapshotted line", len(order.Items))
		}

		// The late line survives the clear with its reservation intact
		var left []models.CartItem
		if err := db.Find(&left).Error; err != nil {
			t.Fatalf("fetch cart items: %v", err)
		}
		if len(left) != 1 || left[0].Quantity != 1 {
			t.Fatalf("surviving lines = %+v, want the concurrently added one", left)
		}
	})

	t.Run("missing cart fails with cart empty", func(t *testing.T) {
		db := openTestDB(t)
		user := models.User{Name: "Bo", Email: "bo@example.com", PasswordHash: "x"}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}

		_, err := Checkout(db, user.ID)
		var apiErr *apierror.ApiError
		if !errors.As(err, &apiErr) || apiErr.Code != apierror.CodeCartEmpty {
			t.Fatalf("err = %v, want cart empty", err)
		}
	})
}

func TestMapOrderStatus(t *testing.T) {
	if _, err := mapOrderStatus("shipped"); err != nil {
		t.Errorf("shipped should be valid: %v", err)
	}
	if _, err := mapOrderStatus("teleported"); err == nil {
		t.Error("expected error for unknown status")
	}
}
