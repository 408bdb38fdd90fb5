package model

// Property は properties テーブルの1行を表します
type Property struct {
	ID                int64  `db:"id" json:"id"`
	OwnerID           int64  `db:"owner_id" json:"owner_id"`
	Title             string `db:"title" json:"title"`
	Description       string `db:"description" json:"description"`
	ThumbnailPhotoURL string `db:"thumbnail_photo_url" json:"thumbnail_photo_url"`
	CoverPhotoURL     string `db:"cover_photo_url" json:"cover_photo_url"`
	CostPerNight      int64  `db:"cost_per_night" json:"cost_per_night"`
	ParkingSpaces     int    `db:"parking_spaces" json:"parking_spaces"`
	NumberOfBathrooms int    `db:"number_of_bathrooms" json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `db:"number_of_bedrooms" json:"number_of_bedrooms"`
	Country           string `db:"country" json:"country"`
	Street            string `db:"street" json:"street"`
	City              string `db:"city" json:"city"`
	Province          string `db:"province" json:"province"`
	PostCode          string `db:"post_code" json:"post_code"`
	Active            bool   `db:"active" json:"active"`
}

// RatedProperty はレビュー平均値付きの物件です
type RatedProperty struct {
	Property
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

// NewProperty は物件登録時の入力です
type NewProperty struct {
	OwnerID           int64  `db:"owner_id" json:"owner_id" validate:"required,gt=0"`
	Title             string `db:"title" json:"title" validate:"required,max=255"`
	Description       string `db:"description" json:"description"`
	ThumbnailPhotoURL string `db:"thumbnail_photo_url" json:"thumbnail_photo_url" validate:"omitempty,url"`
	CoverPhotoURL     string `db:"cover_photo_url" json:"cover_photo_url" validate:"omitempty,url"`
	CostPerNight      int64  `db:"cost_per_night" json:"cost_per_night" validate:"gte=0"`
	ParkingSpaces     int    `db:"parking_spaces" json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int    `db:"number_of_bathrooms" json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int    `db:"number_of_bedrooms" json:"number_of_bedrooms" validate:"gte=0"`
	Country           string `db:"country" json:"country" validate:"required"`
	Street            string `db:"street" json:"street" validate:"required"`
	City              string `db:"city" json:"city" validate:"required"`
	Province          string `db:"province" json:"province" validate:"required"`
	PostCode          string `db:"post_code" json:"post_code" validate:"required"`
}

// Validate は入力値を検証します
func (p NewProperty) Validate() error {
	return validateStruct(p)
}

// PropertyFilter は物件検索の条件です
// ゼロ値のフィールドは条件に含めません
type PropertyFilter struct {
	City                 string `json:"city"`
	OwnerID              int64  `json:"owner_id" validate:"gte=0"`
	MinimumPricePerNight int64  `json:"minimum_price_per_night" validate:"gte=0"`
	MaximumPricePerNight int64  `json:"maximum_price_per_night" validate:"gte=0"`
	MinimumRating        int    `json:"minimum_rating" validate:"gte=0,lte=5"`
}

// MinimumAverageRating は検索結果に必要な平均評価の下限です
const MinimumAverageRating = 4

// Validate は検索条件を検証します
func (f PropertyFilter) Validate() error {
	return validateStruct(f)
}

// RatingFloor は HAVING 句に使う平均評価の下限を返します
// MinimumRating は下限を引き上げることのみできます
func (f PropertyFilter) RatingFloor() int {
	if f.MinimumRating > MinimumAverageRating {
		return f.MinimumRating
	}
	return MinimumAverageRating
}
