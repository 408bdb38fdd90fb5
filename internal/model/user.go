package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidInput は入力値の検証に失敗したことを表します
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// maxPasswordBytes は bcrypt が受け付けるパスワードの最大バイト数です
// validator の max は文字数で数えるため別途確認します
const maxPasswordBytes = 72

// User は users テーブルの1行を表します
// Password には bcrypt ハッシュが入り、JSON には出力しません
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

// NewUser はユーザー登録時の入力です
type NewUser struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// Validate は入力値を検証します
func (u NewUser) Validate() error {
	if err := validateStruct(u); err != nil {
		return err
	}
	if len(u.Password) > maxPasswordBytes {
		return fmt.Errorf("%w: password exceeds %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

// HashPassword は平文パスワードを bcrypt でハッシュ化したユーザー行を返します
func (u NewUser) HashPassword() (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		Name:     u.Name,
		Email:    u.Email,
		Password: string(hash),
	}, nil
}

// CheckPassword は平文パスワードが保存済みハッシュと一致するかを返します
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
