package model

import "time"

// GuestReservation はゲストの予約一覧の1行です
// 予約情報に加えて物件情報と物件のレビュー平均値を持ちます
type GuestReservation struct {
	ReservationID int64     `db:"reservation_id" json:"reservation_id"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	Property
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

// Nights は宿泊数を返します
func (r GuestReservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// Itinerary はバッチでStep Functionsに返却するゲストの予約一覧です
type Itinerary struct {
	GuestID      int64              `json:"guest_id"`
	Reservations []GuestReservation `json:"reservations"`
	TotalNights  int                `json:"total_nights"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// NewItinerary は予約一覧から Itinerary を作成します
func NewItinerary(guestID int64, reservations []GuestReservation, now time.Time) Itinerary {
	if reservations == nil {
		reservations = []GuestReservation{}
	}
	nights := 0
	for _, r := range reservations {
		nights += r.Nights()
	}
	return Itinerary{
		GuestID:      guestID,
		Reservations: reservations,
		TotalNights:  nights,
		GeneratedAt:  now,
	}
}
