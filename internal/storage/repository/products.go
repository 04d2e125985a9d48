package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/resellerhub/resellerhub/internal/models"
)

// CreateProduct сохраняет новый товар продавца.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) error {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (id, user_id, name, sku, category, cost_price,
			      sell_price, stock, description, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	if _, err := s.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.SKU, p.Category, p.CostPrice,
		p.SellPrice, p.Stock, p.Description, p.ImageURL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProduct возвращает товар по ID в пределах каталога владельца.
func (s *Storage) GetProduct(ctx context.Context, productID, userID string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, sku, category, cost_price, sell_price,
			      stock, description, image_url, created_at, updated_at
			  FROM products
			  WHERE id = $1 AND user_id = $2`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, productID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts возвращает каталог продавца, новые товары первыми.
func (s *Storage) ListProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, sku, category, cost_price, sell_price,
			      stock, description, image_url, created_at, updated_at
			  FROM products
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var sku, category, description, imageURL sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &sku, &category, &p.CostPrice,
		&p.SellPrice, &p.Stock, &description, &imageURL,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if sku.Valid {
		p.SKU = &sku.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if description.Valid {
		p.Description = &description.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return p, nil
}

// UpdateProduct частично обновляет товар владельца: nil-поля не трогаются.
// Возвращает количество обновлённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, productID, userID string, upd models.ProductUpdate) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET name = COALESCE($1, name),
			      sku = COALESCE($2, sku),
			      category = COALESCE($3, category),
			      cost_price = COALESCE($4, cost_price),
			      sell_price = COALESCE($5, sell_price),
			      stock = COALESCE($6, stock),
			      description = COALESCE($7, description),
			      image_url = COALESCE($8, image_url),
			      updated_at = NOW()
			  WHERE id = $9 AND user_id = $10`
	res, err := s.DB.ExecContext(ctx, query,
		upd.Name, upd.SKU, upd.Category, upd.CostPrice, upd.SellPrice,
		upd.Stock, upd.Description, upd.ImageURL, productID, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// RemoveProduct удаляет товар из каталога владельца.
// Возвращает количество удалённых строк.
func (s *Storage) RemoveProduct(ctx context.Context, productID, userID string) (int, error) {
	const op = "storage.RemoveProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, productID, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// GetDashboardSummary собирает агрегаты по каталогу продавца одним запросом.
// Для пустого каталога возвращаются нули, а не NULL.
func (s *Storage) GetDashboardSummary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	const op = "storage.GetDashboardSummary"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*),
			      COALESCE(SUM(cost_price * stock), 0),
			      COALESCE(SUM(sell_price * stock), 0),
			      COALESCE(AVG(CASE WHEN sell_price > 0
			          THEN (sell_price - cost_price) * 100.0 / sell_price
			          END), 0)
			  FROM products
			  WHERE user_id = $1`
	summary := &models.DashboardSummary{TopProducts: []models.TopProduct{}}
	var avgMargin float64
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&summary.TotalProducts, &summary.StockValue,
		&summary.PotentialRevenue, &avgMargin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	summary.AvgMargin = int(math.Round(avgMargin))

	alertsQuery := `SELECT COUNT(*) FROM price_alerts
			  WHERE user_id = $1 AND is_read = FALSE`
	if err := s.DB.QueryRowContext(ctx, alertsQuery, userID).Scan(&summary.PriceAlerts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	topQuery := `SELECT name, sell_price, stock,
			      CASE WHEN sell_price > 0
			          THEN ROUND((sell_price - cost_price) * 100.0 / sell_price, 1)
			          ELSE 0 END AS margin
			  FROM products
			  WHERE user_id = $1
			  ORDER BY (sell_price * stock) DESC
			  LIMIT 5`
	rows, err := s.DB.QueryContext(ctx, topQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var tp models.TopProduct
		if err = rows.Scan(&tp.Name, &tp.SellPrice, &tp.Stock, &tp.Margin); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.TopProducts = append(summary.TopProducts, tp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}
