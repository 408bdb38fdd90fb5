package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestGuestReservationNights(t *testing.T) {
	start := time.Date(2018, 9, 11, 0, 0, 0, 0, time.UTC)
	r := GuestReservation{
		ReservationID: 1,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 5),
	}

	if got := r.Nights(); got != 5 {
		t.Errorf("Nights() = %v, want %v", got, 5)
	}
}

func TestNewItinerary(t *testing.T) {
	now := time.Now()

	itinerary := NewItinerary(7, nil, now)
	if itinerary.GuestID != 7 {
		t.Errorf("NewItinerary() guest_id = %v, want %v", itinerary.GuestID, 7)
	}
	if !itinerary.GeneratedAt.Equal(now) {
		t.Errorf("NewItinerary() generated_at = %v, want %v", itinerary.GeneratedAt, now)
	}

	// 予約0件でも null ではなく空配列として出力する
	b, err := json.Marshal(itinerary)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if _, ok := decoded["reservations"].([]any); !ok {
		t.Errorf("reservations = %v, want an empty array", decoded["reservations"])
	}
}

func TestNewItinerary_TotalNights(t *testing.T) {
	start := time.Date(2018, 9, 11, 0, 0, 0, 0, time.UTC)
	reservations := []GuestReservation{
		{ReservationID: 1, StartDate: start, EndDate: start.AddDate(0, 0, 15)},
		{ReservationID: 2, StartDate: start.AddDate(0, 4, 0), EndDate: start.AddDate(0, 4, 3)},
	}

	itinerary := NewItinerary(1, reservations, start)
	if itinerary.TotalNights != 18 {
		t.Errorf("NewItinerary() total_nights = %v, want %v", itinerary.TotalNights, 18)
	}
}
