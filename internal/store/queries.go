package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// User queries.
const (
	queryCreateUser = `
		INSERT INTO users (username, email, password, created_at)
		VALUES (@username, @email, @password, now())
		RETURNING id, created_at`

	queryGetUserByID = `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE id = $1`

	queryGetUserByEmail = `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE email = $1`

	queryGetUserByUsername = `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE username = $1`

	// User deletion cascades through products and their history in one
	// transaction (explicit arena-style ownership, no FK cascade).
	queryDeleteUserHistory = `
		DELETE FROM price_history
		WHERE product_id IN (SELECT id FROM products WHERE user_id = $1)`

	queryDeleteUserProducts = `DELETE FROM products WHERE user_id = $1`

	queryDeleteUser = `DELETE FROM users WHERE id = $1`
)

// Product queries.
const (
	queryCreateProduct = `
		INSERT INTO products (
			name, url, target_price, notifications_enabled, user_id, created_at
		) VALUES (
			@name, @url, @target_price, @notifications_enabled, @user_id, now()
		)
		RETURNING id, created_at`

	queryGetProduct = `
		SELECT id, name, url, current_price, target_price, last_checked_at,
			notifications_enabled, user_id, created_at
		FROM products
		WHERE id = $1`

	queryListAllProducts = `
		SELECT id, name, url, current_price, target_price, last_checked_at,
			notifications_enabled, user_id, created_at
		FROM products
		ORDER BY created_at`

	queryUpdateProduct = `
		UPDATE products SET
			name = @name,
			url = @url,
			target_price = @target_price,
			notifications_enabled = @notifications_enabled
		WHERE id = @id`

	queryDeleteProductHistory = `DELETE FROM price_history WHERE product_id = $1`

	queryDeleteProduct = `DELETE FROM products WHERE id = $1`
)

// Price update queries. Used together inside the UpdateProductPrice
// transaction; the row lock serializes concurrent checks of the same product.
const (
	queryLockProductPrice = `
		SELECT current_price
		FROM products
		WHERE id = $1
		FOR UPDATE`

	queryInsertHistoryEntry = `
		INSERT INTO price_history (product_id, price, recorded_at)
		VALUES ($1, $2, now())
		RETURNING id, recorded_at`

	queryTouchProductPrice = `
		UPDATE products SET
			current_price = $2,
			last_checked_at = now()
		WHERE id = $1`

	queryListPriceHistory = `
		SELECT id, product_id, price, recorded_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at DESC, id DESC`
)
