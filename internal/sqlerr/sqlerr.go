// Package sqlerr はデータベースドライバのエラーを分類します。
//
// lib/pq が返す SQLSTATE と database/sql の ErrNoRows を
// NotFound / ConstraintViolation / QueryFailed の3種類に変換し、
// 呼び出し側が errors.Is で分岐できるようにします。
package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound は該当する行が存在しないことを表します
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation はデータベースの制約違反を表します
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrQueryFailed はその他のクエリ失敗を表します
	ErrQueryFailed = errors.New("query failed")
)

// Code は制約違反の種類です
type Code string

const (
	Other               Code = "other"
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
)

// Error は分類済みのデータベースエラーです
type Error struct {
	Op             string
	Kind           error
	Code           Code
	DatabaseCode   string
	TableName      string
	ColumnName     string
	ConstraintName string
	Err            error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は Kind と一致するセンチネルエラーに対して true を返します
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// NotFound は op に対する ErrNotFound を返します
func NotFound(op string) error {
	return &Error{Op: op, Kind: ErrNotFound, Code: Other}
}

// HandleError はドライバのエラーを *Error に変換します
// nil はそのまま返し、分類済みのエラーは再度ラップしません
func HandleError(op string, err error) error {
	if err == nil {
		return nil
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Op: op, Kind: ErrNotFound, Code: Other, Err: err}
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		code := MapCode(string(pgErr.Code))
		kind := ErrQueryFailed
		if code != Other {
			kind = ErrConstraintViolation
		}
		return &Error{
			Op:             op,
			Kind:           kind,
			Code:           code,
			DatabaseCode:   string(pgErr.Code),
			TableName:      pgErr.Table,
			ColumnName:     pgErr.Column,
			ConstraintName: pgErr.Constraint,
			Err:            err,
		}
	}

	return &Error{Op: op, Kind: ErrQueryFailed, Code: Other, Err: err}
}

// MapCode は SQLSTATE を Code に変換します
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// ErrCode は err に含まれる Code を返します
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}
