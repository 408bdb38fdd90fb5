package repository

import (
	"context"
	"fmt"

	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// PropertyRepository は物件の永続化を担当するインターフェースです
type PropertyRepository interface {
	Search(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.RatedProperty, error)
	Create(ctx context.Context, property model.NewProperty) (*model.Property, error)
}

// PropertyRepositoryImpl はPropertyRepositoryの実装です
type PropertyRepositoryImpl struct {
	db *DB
}

// NewPropertyRepository は新しいPropertyRepositoryを作成します
func NewPropertyRepository(db *DB) *PropertyRepositoryImpl {
	return &PropertyRepositoryImpl{db: db}
}

// Search は条件に一致し、レビュー平均値が下限以上の物件を料金の昇順で取得します
func (r *PropertyRepositoryImpl) Search(ctx context.Context, filter model.PropertyFilter, limit int) (properties []model.RatedProperty, err error) {
	const op = "PropertyRepository.Search"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query, args := buildPropertySearch(filter, limit)

	properties = []model.RatedProperty{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return properties, nil
}

// buildPropertySearch は物件検索のクエリとパラメータを組み立てます
// 指定された条件はそれぞれ1回だけ AND で連結されます
func buildPropertySearch(filter model.PropertyFilter, limit int) (string, []interface{}) {
	var where whereBuilder
	if filter.City != "" {
		where.add("properties.city LIKE ?", "%"+filter.City+"%")
	}
	if filter.OwnerID != 0 {
		where.add("properties.owner_id = ?", filter.OwnerID)
	}
	if filter.MinimumPricePerNight != 0 {
		where.add("properties.cost_per_night >= ?", filter.MinimumPricePerNight)
	}
	if filter.MaximumPricePerNight != 0 {
		where.add("properties.cost_per_night <= ?", filter.MaximumPricePerNight)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			AVG(property_reviews.rating) AS average_rating
		FROM properties
		JOIN property_reviews ON properties.id = property_reviews.property_id
		%s
		GROUP BY properties.id
		HAVING AVG(property_reviews.rating) >= ?
		ORDER BY properties.cost_per_night
		LIMIT ?`, propertyColumns, where.clause())

	args := append(where.args, filter.RatingFloor(), limit)
	return rebind(query), args
}

// Create は物件を登録し、採番されたIDを含む行を返します
func (r *PropertyRepositoryImpl) Create(ctx context.Context, property model.NewProperty) (created *model.Property, err error) {
	const op = "PropertyRepository.Create"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query := `
		INSERT INTO properties (
			owner_id,
			title,
			description,
			thumbnail_photo_url,
			cover_photo_url,
			cost_per_night,
			parking_spaces,
			number_of_bathrooms,
			number_of_bedrooms,
			country,
			street,
			city,
			province,
			post_code
		) VALUES (
			:owner_id,
			:title,
			:description,
			:thumbnail_photo_url,
			:cover_photo_url,
			:cost_per_night,
			:parking_spaces,
			:number_of_bathrooms,
			:number_of_bedrooms,
			:country,
			:street,
			:city,
			:province,
			:post_code
		)
		RETURNING ` + propertyColumns

	named, args, err := r.db.BindNamed(query, property)
	if err != nil {
		return nil, fmt.Errorf("failed to bind property: %w", err)
	}

	var p model.Property
	if err := r.db.GetContext(ctx, &p, named, args...); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return &p, nil
}
