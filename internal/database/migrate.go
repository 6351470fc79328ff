package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the tables the service needs, in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'RIDER',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS bus_layouts (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		owner_id     BIGINT UNSIGNED NOT NULL,
		name         VARCHAR(120) NOT NULL,
		seat_rows    TINYINT UNSIGNED NOT NULL,
		seat_cols    TINYINT UNSIGNED NOT NULL,
		aisle_column TINYINT UNSIGNED NOT NULL DEFAULT 0,
		seat_count   SMALLINT UNSIGNED NOT NULL DEFAULT 0,
		layout_data  JSON NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_layout_owner_name (owner_id, name),
		CONSTRAINT fk_layout_owner FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
}

// Migrate creates missing tables.  Existing tables are left as they are.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
