package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   NewUser
		wantErr bool
	}{
		{
			name:    "正常系",
			input:   NewUser{Name: "Devin Sanders", Email: "tristanjacobs@gmail.com", Password: "password"},
			wantErr: false,
		},
		{
			name:    "名前が空",
			input:   NewUser{Email: "a@example.com", Password: "x"},
			wantErr: true,
		},
		{
			name:    "メールアドレスの形式が不正",
			input:   NewUser{Name: "A", Email: "not-an-email", Password: "x"},
			wantErr: true,
		},
		{
			name:    "パスワードが空",
			input:   NewUser{Name: "A", Email: "a@example.com"},
			wantErr: true,
		},
		{
			name:    "パスワードがbcryptの上限を超える",
			input:   NewUser{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 73)},
			wantErr: true,
		},
		{
			name:    "マルチバイトのパスワードが72バイトを超える",
			input:   NewUser{Name: "A", Email: "a@example.com", Password: strings.Repeat("あ", 30)},
			wantErr: true,
		},
		{
			name:    "マルチバイトのパスワードが72バイト以内",
			input:   NewUser{Name: "A", Email: "a@example.com", Password: strings.Repeat("あ", 24)},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewUserHashPassword(t *testing.T) {
	input := NewUser{Name: "A", Email: "a@example.com", Password: "x"}

	user, err := input.HashPassword()
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if user.Password == input.Password {
		t.Error("HashPassword() stored the plain text password")
	}
	if user.Name != input.Name || user.Email != input.Email {
		t.Errorf("HashPassword() = %+v, want name and email copied", user)
	}
	if !user.CheckPassword("x") {
		t.Error("CheckPassword() = false for the plain password")
	}
	if user.CheckPassword("y") {
		t.Error("CheckPassword() = true for a wrong password")
	}
}

func TestNewUserHashPassword_TooLong(t *testing.T) {
	input := NewUser{Name: "A", Email: "a@example.com", Password: strings.Repeat("あ", 30)}

	_, err := input.HashPassword()
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("HashPassword() error = %v, want ErrInvalidInput", err)
	}
}

func TestUserJSONOmitsPassword(t *testing.T) {
	user := User{ID: 1, Name: "A", Email: "a@example.com", Password: "$2a$10$hash"}

	b, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(b), "password") || strings.Contains(string(b), "$2a$") {
		t.Errorf("json.Marshal() = %s, want no password", b)
	}
}
