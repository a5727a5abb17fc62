package seeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Product struct {
	ID   string
	Name string
}

// Products is the stock Online Boutique catalog.
var Products = []Product{
	{"OLJCESPC7Z", "Sunglasses"},
	{"66VCHSJNUP", "Tank Top"},
	{"1YMWWN1N4O", "Watch"},
	{"L9ECAV7KIM", "Loafers"},
	{"2ZYFJ3GM2N", "Hairdryer"},
	{"0PUK6V6EV0", "Candle Holder"},
	{"LS4PSXUNUM", "Salt & Pepper Shakers"},
	{"9SIQT8TOJO", "Bamboo Glass Jar"},
	{"6E92ZMYYFZ", "Mug"},
}

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres replaces the contents of the products table with products.
func Postgres(ctx context.Context, db Execer, products []Product, log zerolog.Logger) error {
	log.Info().Msg("[seed] truncating products")
	if _, err := db.Exec(ctx, `TRUNCATE products`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	rows := []string{}
	args := []any{}
	for i, p := range products {
		base := i * 2
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, p.ID, p.Name)
	}

	log.Info().Int("count", len(products)).Msg("[seed] inserting products")
	query := "INSERT INTO products (id, name) VALUES " + strings.Join(rows, ", ")
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}

	log.Info().Msg("[seed] seeding complete")
	return nil
}

// Redis replaces the list at key with the product ids, atomically.
func Redis(ctx context.Context, client redis.Cmdable, key string, products []Product, log zerolog.Logger) error {
	ids := make([]any, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	log.Info().Str("key", key).Int("count", len(ids)).Msg("[seed] writing product list")
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) > 0 {
			pipe.RPush(ctx, key, ids...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	log.Info().Msg("[seed] seeding complete")
	return nil
}
