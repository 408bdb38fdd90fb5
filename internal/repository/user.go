package repository

import (
	"context"

	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// UserRepository はユーザーの永続化を担当するインターフェースです
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
}

// UserRepositoryImpl はUserRepositoryの実装です
type UserRepositoryImpl struct {
	db *DB
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(db *DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// GetByEmail はメールアドレスが完全一致するユーザーを取得します
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (user *model.User, err error) {
	const op = "UserRepository.GetByEmail"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query := `
		SELECT id, name, email, password
		FROM users
		WHERE users.email = $1`

	var u model.User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return &u, nil
}

// GetByID はIDに一致するユーザーを取得します
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (user *model.User, err error) {
	const op = "UserRepository.GetByID"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query := `
		SELECT id, name, email, password
		FROM users
		WHERE users.id = $1`

	var u model.User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return &u, nil
}

// Create はユーザーを登録し、登録された行を返します
// メールアドレスの重複はデータベースの一意制約で検出します
func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) (created *model.User, err error) {
	const op = "UserRepository.Create"
	ctx, done := traceOp(ctx, op)
	defer func() { done(err) }()

	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password`

	var u model.User
	if err := r.db.GetContext(ctx, &u, query, user.Name, user.Email, user.Password); err != nil {
		return nil, sqlerr.HandleError(op, err)
	}

	return &u, nil
}
