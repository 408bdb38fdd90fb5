// Package fixture はテスト用のインメモリ実装を提供します。
//
// PropertyStore は repository.PropertyRepository と repository.ReviewRepository を
// メモリ上で実装します。プロセスの終了とともに内容は失われるため、
// 本番コードからは利用しないでください。
package fixture

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// PropertyStore は物件とレビュー評価をメモリ上に保持します
type PropertyStore struct {
	mu         sync.Mutex
	properties map[int64]model.Property
	reviews    map[int64][]model.PropertyReview

	nextReviewID int64
}

// NewPropertyStore は空の PropertyStore を作成します
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{
		properties: make(map[int64]model.Property),
		reviews:    make(map[int64][]model.PropertyReview),
	}
}

// Create は登録済みの件数+1をIDとして物件を保持します
func (s *PropertyStore) Create(ctx context.Context, input model.NewProperty) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.Property{
		ID:                int64(len(s.properties) + 1),
		OwnerID:           input.OwnerID,
		Title:             input.Title,
		Description:       input.Description,
		ThumbnailPhotoURL: input.ThumbnailPhotoURL,
		CoverPhotoURL:     input.CoverPhotoURL,
		CostPerNight:      input.CostPerNight,
		ParkingSpaces:     input.ParkingSpaces,
		NumberOfBathrooms: input.NumberOfBathrooms,
		NumberOfBedrooms:  input.NumberOfBedrooms,
		Country:           input.Country,
		Street:            input.Street,
		City:              input.City,
		Province:          input.Province,
		PostCode:          input.PostCode,
		Active:            true,
	}
	s.properties[p.ID] = p

	return &p, nil
}

// AddReview はレビューを保持し、採番したIDを返します
func (s *PropertyStore) AddReview(review model.PropertyReview) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextReviewID++
	review.ID = s.nextReviewID
	s.reviews[review.PropertyID] = append(s.reviews[review.PropertyID], review)
	return review.ID
}

// Search はデータベース版と同じ条件で物件を絞り込みます
// レビューのない物件は結果に含めません
func (s *PropertyStore) Search(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.RatedProperty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.RatedProperty{}
	for id, p := range s.properties {
		if filter.City != "" && !strings.Contains(p.City, filter.City) {
			continue
		}
		if filter.OwnerID != 0 && p.OwnerID != filter.OwnerID {
			continue
		}
		if filter.MinimumPricePerNight != 0 && p.CostPerNight < filter.MinimumPricePerNight {
			continue
		}
		if filter.MaximumPricePerNight != 0 && p.CostPerNight > filter.MaximumPricePerNight {
			continue
		}

		avg, ok := average(s.reviews[id])
		if !ok || avg < float64(filter.RatingFloor()) {
			continue
		}
		result = append(result, model.RatedProperty{Property: p, AverageRating: avg})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CostPerNight != result[j].CostPerNight {
			return result[i].CostPerNight < result[j].CostPerNight
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetAverageRating は物件の評価の平均値を返します
func (s *PropertyStore) GetAverageRating(ctx context.Context, propertyID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	avg, ok := average(s.reviews[propertyID])
	if !ok {
		return 0, sqlerr.NotFound("PropertyStore.GetAverageRating")
	}
	return avg, nil
}

func average(reviews []model.PropertyReview) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), true
}
