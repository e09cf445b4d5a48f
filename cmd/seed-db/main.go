// Command seed-db populates the database with a demo restaurant: categories,
// products with ingredient requirements and modifiers, dining tables,
// employees, payment methods, and discounts. Safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c010r/lollypos/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	steps := []struct {
		name string
		fn   func(context.Context, *pgxpool.Pool) error
	}{
		{"catalog", seedCatalog},
		{"inventory", seedInventory},
		{"modifiers", seedModifiers},
		{"staff, customers and tables", seedStaffAndTables},
		{"payment methods and discounts", seedPaymentsAndDiscounts},
	}
	for _, step := range steps {
		slog.Info("seeding", slog.String("step", step.name))
		if err := step.fn(ctx, pool); err != nil {
			return errors.Wrapf(err, "seed %s", step.name)
		}
	}

	return resetSequences(ctx, pool)
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	const categories = `
		INSERT INTO categories (id, name, description) VALUES
			(1, 'Pizzas', 'Stone-baked pizzas'),
			(2, 'Burgers', 'Smash burgers and sides'),
			(3, 'Drinks', 'Cold and hot drinks'),
			(4, 'Desserts', 'Sweet endings')
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	if _, err := pool.Exec(ctx, categories); err != nil {
		return errors.Wrap(err, "categories")
	}

	const products = `
		INSERT INTO products (id, name, description, price, category_id, sku_code, prep_minutes) VALUES
			(1, 'Margherita',     'Tomato, mozzarella, basil',        9.50,  1, 'PZ-MARG',  18),
			(2, 'Pepperoni',      'Pepperoni, mozzarella',            11.00, 1, 'PZ-PEPP',  18),
			(3, 'Classic Burger', 'Beef patty, cheddar, pickles',     8.75,  2, 'BG-CLAS',  12),
			(4, 'Veggie Burger',  'Grilled halloumi, roast peppers',  8.25,  2, 'BG-VEGG',  12),
			(5, 'Lemonade',       'Fresh squeezed',                   3.00,  3, 'DR-LEMO',  3),
			(6, 'Espresso',       'Double shot',                      2.50,  3, 'DR-ESPR',  2),
			(7, 'Cheesecake',     'Baked vanilla cheesecake',         5.50,  4, 'DS-CHEE',  5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, category_id = EXCLUDED.category_id,
			sku_code = EXCLUDED.sku_code, prep_minutes = EXCLUDED.prep_minutes`
	if _, err := pool.Exec(ctx, products); err != nil {
		return errors.Wrap(err, "products")
	}

	return nil
}

func seedInventory(ctx context.Context, pool *pgxpool.Pool) error {
	const ingredients = `
		INSERT INTO ingredients (id, name, unit, current_stock, minimum_stock) VALUES
			(1, 'Pizza dough',   'pcs', 40,  10),
			(2, 'Mozzarella',    'kg',  12,  3),
			(3, 'Tomato sauce',  'l',   15,  4),
			(4, 'Pepperoni',     'kg',  6,   2),
			(5, 'Beef patty',    'pcs', 50,  15),
			(6, 'Burger bun',    'pcs', 60,  20),
			(7, 'Lemons',        'kg',  8,   2),
			(8, 'Coffee beans',  'kg',  5,   1)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, unit = EXCLUDED.unit,
			minimum_stock = EXCLUDED.minimum_stock`
	if _, err := pool.Exec(ctx, ingredients); err != nil {
		return errors.Wrap(err, "ingredients")
	}

	const requirements = `
		INSERT INTO product_ingredients (product_id, ingredient_id, quantity) VALUES
			(1, 1, 1), (1, 2, 0.25), (1, 3, 0.15),
			(2, 1, 1), (2, 2, 0.25), (2, 3, 0.15), (2, 4, 0.10),
			(3, 5, 1), (3, 6, 1),
			(4, 6, 1),
			(5, 7, 0.30),
			(6, 8, 0.02)
		ON CONFLICT (product_id, ingredient_id) DO UPDATE SET quantity = EXCLUDED.quantity`
	if _, err := pool.Exec(ctx, requirements); err != nil {
		return errors.Wrap(err, "product ingredients")
	}

	return nil
}

func seedModifiers(ctx context.Context, pool *pgxpool.Pool) error {
	const groups = `
		INSERT INTO modifier_groups (id, name, is_required, multiple_selection) VALUES
			(1, 'Pizza extras',  FALSE, TRUE),
			(2, 'Burger extras', FALSE, TRUE),
			(3, 'Milk options',  FALSE, FALSE)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := pool.Exec(ctx, groups); err != nil {
		return errors.Wrap(err, "modifier groups")
	}

	const modifiers = `
		INSERT INTO modifiers (id, name, additional_price, group_id) VALUES
			(1, 'Extra cheese',   1.50, 1),
			(2, 'Mushrooms',      1.00, 1),
			(3, 'Bacon',          1.75, 2),
			(4, 'Extra patty',    2.50, 2),
			(5, 'Oat milk',       0.50, 3),
			(6, 'No onions',      0.00, 2)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, additional_price = EXCLUDED.additional_price,
			group_id = EXCLUDED.group_id`
	if _, err := pool.Exec(ctx, modifiers); err != nil {
		return errors.Wrap(err, "modifiers")
	}

	const links = `
		INSERT INTO product_modifier_groups (product_id, group_id) VALUES
			(1, 1), (2, 1), (3, 2), (4, 2), (6, 3)
		ON CONFLICT (product_id, group_id) DO NOTHING`
	if _, err := pool.Exec(ctx, links); err != nil {
		return errors.Wrap(err, "product modifier groups")
	}

	return nil
}

func seedStaffAndTables(ctx context.Context, pool *pgxpool.Pool) error {
	const employees = `
		INSERT INTO employees (id, first_name, last_name, role, pin_code) VALUES
			(1, 'Maria', 'Lopez',   'MANAGER', '1234'),
			(2, 'Jonas', 'Berg',    'WAITER',  '2345'),
			(3, 'Aisha', 'Khan',    'WAITER',  '3456'),
			(4, 'Tom',   'Nguyen',  'CHEF',    '4567')
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
			role = EXCLUDED.role`
	if _, err := pool.Exec(ctx, employees); err != nil {
		return errors.Wrap(err, "employees")
	}

	const customers = `
		INSERT INTO customers (id, first_name, last_name, phone, email) VALUES
			(1, 'Erik',  'Sand',   '+4740001001', 'erik.sand@example.com'),
			(2, 'Nadia', 'Rossi',  '+4740001002', 'nadia.rossi@example.com'),
			(3, 'Priya', 'Mehta',  '+4740001003', NULL)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone, email = EXCLUDED.email`
	if _, err := pool.Exec(ctx, customers); err != nil {
		return errors.Wrap(err, "customers")
	}

	const tables = `
		INSERT INTO dining_tables (id, number, capacity, location) VALUES
			(1, 1, 2, 'window'),
			(2, 2, 2, 'window'),
			(3, 3, 4, 'main'),
			(4, 4, 4, 'main'),
			(5, 5, 6, 'main'),
			(6, 6, 4, 'terrace'),
			(7, 7, 4, 'terrace'),
			(8, 8, 8, 'back room')
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number, capacity = EXCLUDED.capacity,
			location = EXCLUDED.location`
	if _, err := pool.Exec(ctx, tables); err != nil {
		return errors.Wrap(err, "dining tables")
	}

	return nil
}

func seedPaymentsAndDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	const methods = `
		INSERT INTO payment_methods (id, name) VALUES
			(1, 'Cash'),
			(2, 'Card'),
			(3, 'Mobile')
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := pool.Exec(ctx, methods); err != nil {
		return errors.Wrap(err, "payment methods")
	}

	const discounts = `
		INSERT INTO discounts (id, name, description, discount_type, value, code) VALUES
			(1, 'Happy Hour',     '10 percent off the whole order', 'PERCENTAGE', 10, 'HAPPY10'),
			(2, 'Staff Meal',     '5 off any order',                'FIXED',      5,  'STAFF5'),
			(3, 'Student',        '15 percent off with student ID', 'PERCENTAGE', 15, NULL)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			discount_type = EXCLUDED.discount_type, value = EXCLUDED.value,
			code = EXCLUDED.code`
	if _, err := pool.Exec(ctx, discounts); err != nil {
		return errors.Wrap(err, "discounts")
	}

	return nil
}

// resetSequences bumps each serial sequence past the explicit seed ids so
// application inserts never collide with seeded rows.
func resetSequences(ctx context.Context, pool *pgxpool.Pool) error {
	tables := []string{
		"categories", "products", "ingredients", "modifier_groups",
		"modifiers", "employees", "customers", "dining_tables",
		"payment_methods", "discounts",
	}
	for _, t := range tables {
		q := `SELECT setval(pg_get_serial_sequence('` + t + `', 'id'), (SELECT COALESCE(MAX(id), 1) FROM ` + t + `))`
		if _, err := pool.Exec(ctx, q); err != nil {
			return errors.Wrapf(err, "reset sequence for %s", t)
		}
	}
	return nil
}
