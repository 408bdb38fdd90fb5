// Package gateway はアプリケーションがデータベースへ問い合わせるための窓口です。
//
// 各操作は1つのクエリを発行し、結果または分類済みのエラーを返します。
// 失敗を空の成功に変換することはありません。呼び出し側は
// sqlerr.ErrNotFound / sqlerr.ErrConstraintViolation / sqlerr.ErrQueryFailed /
// model.ErrInvalidInput / ErrInvalidCredentials で分岐できます。
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog"

	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/repository"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// DefaultLimit は一覧取得で件数が指定されなかった場合の上限です
const DefaultLimit = 10

// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しないことを表します
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repositories はGatewayが利用するリポジトリの組です
type Repositories struct {
	Users        repository.UserRepository
	Reservations repository.ReservationRepository
	Properties   repository.PropertyRepository
	Reviews      repository.ReviewRepository
}

// Gateway はユーザー・予約・物件への問い合わせを提供します
type Gateway struct {
	repos        Repositories
	queryTimeout time.Duration
	log          *zerolog.Logger
}

// New は新しいGatewayを作成します
// queryTimeout が0より大きい場合、期限のないコンテキストに適用します
func New(repos Repositories, queryTimeout time.Duration, logger *zerolog.Logger) *Gateway {
	return &Gateway{
		repos:        repos,
		queryTimeout: queryTimeout,
		log:          logger,
	}
}

// NewFromDB はコネクションプールから各リポジトリを作成してGatewayを返します
func NewFromDB(db *repository.DB, queryTimeout time.Duration, logger *zerolog.Logger) *Gateway {
	return New(Repositories{
		Users:        repository.NewUserRepository(db),
		Reservations: repository.NewReservationRepository(db),
		Properties:   repository.NewPropertyRepository(db),
		Reviews:      repository.NewReviewRepository(db),
	}, queryTimeout, logger)
}

// GetUserWithEmail はメールアドレスが完全一致するユーザーを返します
func (g *Gateway) GetUserWithEmail(ctx context.Context, email string) (user *model.User, err error) {
	ctx, done := g.begin(ctx, "Gateway.GetUserWithEmail")
	defer func() { done(err) }()

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}

	return g.repos.Users.GetByEmail(ctx, email)
}

// GetUserWithID はIDに一致するユーザーを返します
func (g *Gateway) GetUserWithID(ctx context.Context, id int64) (user *model.User, err error) {
	ctx, done := g.begin(ctx, "Gateway.GetUserWithID")
	defer func() { done(err) }()

	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", model.ErrInvalidInput)
	}

	return g.repos.Users.GetByID(ctx, id)
}

// AddUser はパスワードをハッシュ化してユーザーを登録し、登録された行を返します
func (g *Gateway) AddUser(ctx context.Context, input model.NewUser) (user *model.User, err error) {
	ctx, done := g.begin(ctx, "Gateway.AddUser")
	defer func() { done(err) }()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hashed, err := input.HashPassword()
	if err != nil {
		return nil, err
	}

	return g.repos.Users.Create(ctx, hashed)
}

// Authenticate はメールアドレスとパスワードを照合し、一致したユーザーを返します
// ユーザーが存在しない場合とパスワードが異なる場合は区別しません
func (g *Gateway) Authenticate(ctx context.Context, email, password string) (user *model.User, err error) {
	ctx, done := g.begin(ctx, "Gateway.Authenticate")
	defer func() { done(err) }()

	user, err = g.repos.Users.GetByEmail(ctx, email)
	if errors.Is(err, sqlerr.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetAllReservations はゲストの予約を開始日の昇順で最大 limit 件返します
// limit が0以下の場合は DefaultLimit を使います
func (g *Gateway) GetAllReservations(ctx context.Context, guestID int64, limit int) (reservations []model.GuestReservation, err error) {
	ctx, done := g.begin(ctx, "Gateway.GetAllReservations")
	defer func() { done(err) }()

	if guestID <= 0 {
		return nil, fmt.Errorf("%w: guest id must be positive", model.ErrInvalidInput)
	}

	return g.repos.Reservations.GetByGuestID(ctx, guestID, normalizeLimit(limit))
}

// GetAllProperties は条件に一致し、レビュー平均値が4以上の物件を料金の昇順で最大 limit 件返します
// limit が0以下の場合は DefaultLimit を使います
func (g *Gateway) GetAllProperties(ctx context.Context, filter model.PropertyFilter, limit int) (properties []model.RatedProperty, err error) {
	ctx, done := g.begin(ctx, "Gateway.GetAllProperties")
	defer func() { done(err) }()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.MaximumPricePerNight != 0 && filter.MinimumPricePerNight > filter.MaximumPricePerNight {
		return nil, fmt.Errorf("%w: minimum price exceeds maximum price", model.ErrInvalidInput)
	}

	return g.repos.Properties.Search(ctx, filter, normalizeLimit(limit))
}

// AddProperty は物件を登録し、採番されたIDを含む物件を返します
func (g *Gateway) AddProperty(ctx context.Context, input model.NewProperty) (property *model.Property, err error) {
	ctx, done := g.begin(ctx, "Gateway.AddProperty")
	defer func() { done(err) }()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	return g.repos.Properties.Create(ctx, input)
}

// GetAverageRating は物件のレビュー平均値を返します
func (g *Gateway) GetAverageRating(ctx context.Context, propertyID int64) (avg float64, err error) {
	ctx, done := g.begin(ctx, "Gateway.GetAverageRating")
	defer func() { done(err) }()

	return g.repos.Reviews.GetAverageRating(ctx, propertyID)
}

// begin はX-Rayサブセグメントとクエリタイムアウトを設定します
// 返却された関数で結果をログに出力し、後始末をします
func (g *Gateway) begin(ctx context.Context, op string) (context.Context, func(error)) {
	cancel := context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok && g.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, g.queryTimeout)
	}

	ctx, seg := xray.BeginSubsegment(ctx, op)
	start := time.Now()

	return ctx, func(err error) {
		defer cancel()
		if seg != nil {
			seg.Close(err)
		}
		g.logResult(op, err, time.Since(start))
	}
}

func (g *Gateway) logResult(op string, err error, elapsed time.Duration) {
	switch {
	case err == nil:
		g.log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("query succeeded")
	case errors.Is(err, sqlerr.ErrNotFound):
		g.log.Debug().Str("op", op).Err(err).Int("status", sqlerr.HTTPStatus(err)).Msg("query rejected")
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, ErrInvalidCredentials):
		g.log.Debug().Str("op", op).Err(err).Msg("query rejected")
	case errors.Is(err, sqlerr.ErrConstraintViolation):
		g.log.Warn().Str("op", op).Err(err).
			Str("code", string(sqlerr.ErrCode(err))).
			Int("status", sqlerr.HTTPStatus(err)).
			Msg("constraint violation")
	default:
		g.log.Error().Str("op", op).Err(err).
			Int("status", sqlerr.HTTPStatus(err)).
			Dur("elapsed", elapsed).
			Msg("query failed")
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
