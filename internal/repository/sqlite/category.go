package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// compile-time check that *DB implements repository.CategoryRepository
var _ repository.CategoryRepository = (*DB)(nil)

const categoryColumns = `id, user_id, name, color, created_at, updated_at`

// CreateCategory inserts a new category for its owner. A duplicate
// (user_id, name) pair surfaces as apperror.ErrConflict via the UNIQUE
// constraint.
func (db *DB) CreateCategory(ctx context.Context, category *model.Category) error {
	now := time.Now().UTC()
	category.ID = xid.New().String()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category with this name already exists")
		}
		return fmt.Errorf("sqlite: inserting category: %w", err)
	}

	return nil
}

// GetCategory retrieves one category scoped to its owner. Another user's
// category id yields ErrNotFound, identical to a non-existent id.
func (db *DB) GetCategory(ctx context.Context, userID, id string) (*model.Category, error) {
	var c model.Category

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}

	return &c, nil
}

// GetCategoryByName looks a category up by its per-user unique name.
func (db *DB) GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	var c model.Category

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", name)
		}
		return nil, fmt.Errorf("sqlite: getting category by name %q: %w", name, err)
	}

	return &c, nil
}

// ListCategories returns all of one user's categories ordered by name.
func (db *DB) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory writes name and color back, scoped to the owner. Zero rows
// affected means the category does not exist for this user.
func (db *DB) UpdateCategory(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE categories
		 SET name = ?, color = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		category.Name,
		category.Color,
		category.UpdatedAt,
		category.ID,
		category.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category with this name already exists")
		}
		return fmt.Errorf("sqlite: updating category %s: %w", category.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category", category.ID)
	}

	return nil
}

// DeleteCategory removes a category and detaches its tasks in one
// transaction: task references are cleared, never cascaded into deletions.
// The explicit UPDATE inside the transaction keeps the invariant even if the
// schema's ON DELETE SET NULL clause were ever lost in a migration.
func (db *DB) DeleteCategory(ctx context.Context, userID, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET category_id = NULL, updated_at = ?
		 WHERE category_id = ? AND user_id = ?`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: detaching tasks from category %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Rollback via defer — the task detach must not stick either.
		return apperror.NotFound("category", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing category delete: %w", err)
	}

	return nil
}
