package repository

import (
	"context"
	"database/sql"

	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// ReviewRepository は物件レビューの集計を担当するインターフェースです
type ReviewRepository interface {
	GetAverageRating(ctx context.Context, propertyID int64) (float64, error)
}

// ReviewRepositoryImpl はReviewRepositoryの実装です
type ReviewRepositoryImpl struct {
	db *DB
}

// NewReviewRepository は新しいReviewRepositoryを作成します
func NewReviewRepository(db *DB) *ReviewRepositoryImpl {
	return &ReviewRepositoryImpl{
		db: db,
	}
}

// GetAverageRating は指定された物件のレビュー平均値を取得します
// レビューが1件もない場合は ErrNotFound を返します
func (r *ReviewRepositoryImpl) GetAverageRating(ctx context.Context, propertyID int64) (avg float64, err error) {
	const op = "ReviewRepository.GetAverageRating"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query := `
		SELECT AVG(rating)
		FROM property_reviews
		WHERE property_id = $1`

	var rating sql.NullFloat64
	if err := r.db.GetContext(ctx, &rating, query, propertyID); err != nil {
		return 0, sqlerr.HandleError(op, err)
	}

	if !rating.Valid {
		return 0, sqlerr.NotFound(op)
	}

	return rating.Float64, nil
}
