package repository

import (
	"context"

	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

type ReservationRepository interface {
	GetByGuestID(ctx context.Context, guestID int64, limit int) ([]model.GuestReservation, error)
}

type ReservationRepositoryImpl struct {
	db *DB
}

func NewReservationRepository(db *DB) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{db: db}
}

// GetByGuestID は、指定されたゲストの予約を開始日の昇順で取得します
// 各行には予約した物件のレビュー平均値が含まれます
func (r *ReservationRepositoryImpl) GetByGuestID(ctx context.Context, guestID int64, limit int) (reservations []model.GuestReservation, err error) {
	const op = "ReservationRepository.GetByGuestID"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	// 集計列と非集計列が混在するため、予約と物件の主キーで GROUP BY する
	// 他の非集計列はどちらかの主キーに関数従属する
	query := rebind(`
		SELECT
			reservations.id AS reservation_id,
			reservations.start_date,
			reservations.end_date,` + propertyColumns + `,
			AVG(property_reviews.rating) AS average_rating
		FROM reservations
		JOIN properties ON reservations.property_id = properties.id
		JOIN property_reviews ON properties.id = property_reviews.property_id
		WHERE reservations.guest_id = ?
		GROUP BY reservations.id, properties.id
		ORDER BY reservations.start_date
		LIMIT ?`)

	reservations = []model.GuestReservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, guestID, limit); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return reservations, nil
}
