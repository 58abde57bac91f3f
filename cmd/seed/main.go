package main

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/config"
	productdomain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	userdomain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/persistence/postgres"
)

// Chương trình nhỏ để seed admin user và vài listing mẫu cho môi trường dev.
// Chạy lại nhiều lần an toàn: admin đã tồn tại thì bỏ qua.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	products := postgres.NewProductRepository(pool)

	admin, err := seedAdmin(ctx, users)
	if err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}

	n, err := seedCatalog(ctx, products, admin.ID)
	if err != nil {
		log.Fatalf("seed catalog failed: %v", err)
	}

	log.Printf("[Seed] Done: admin=%s, %d sample listings", admin.Email, n)
}

func seedAdmin(ctx context.Context, users *postgres.UserRepository) (*userdomain.User, error) {
	const adminEmail = "admin@smartbook.local"

	existing, err := users.FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Printf("[Seed] Admin %s already exists, skipping", adminEmail)
		return existing, nil
	}
	if !errors.Is(err, userdomain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin, err := userdomain.NewUser(uuid.NewString(), adminEmail, string(hash), "SmartBook Admin")
	if err != nil {
		return nil, err
	}
	admin.Role = userdomain.RoleAdmin
	admin.ShopName = "SmartBook Official"

	if err := users.Save(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("[Seed] Created admin %s (password admin123)", adminEmail)
	return admin, nil
}

func seedCatalog(ctx context.Context, products *postgres.ProductRepository, shopID string) (int, error) {
	samples := []struct {
		title    string
		author   string
		category string
		price    int64
		stock    int
	}{
		{"Nhà Giả Kim", "Paulo Coelho", "fiction", 79000, 50},
		{"Đắc Nhân Tâm", "Dale Carnegie", "self-help", 86000, 40},
		{"The Go Programming Language", "Donovan & Kernighan", "programming", 350000, 15},
		{"Designing Data-Intensive Applications", "Martin Kleppmann", "programming", 420000, 10},
		{"Sapiens", "Yuval Noah Harari", "history", 199000, 25},
	}

	count := 0
	for _, s := range samples {
		p, err := productdomain.NewProduct(uuid.NewString(), shopID, s.title, s.author, s.category, s.price, s.stock)
		if err != nil {
			return count, err
		}
		if err := products.Save(ctx, p); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
