package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// Message はエンドユーザー向けのエラーメッセージを返します
// ログにはこのメッセージではなく err 自体を出力してください
func Message(err error) string {
	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		return "An error occurred while processing your request"
	}

	if errors.Is(sqlErr.Kind, ErrNotFound) {
		return "Resource not found"
	}

	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)
	switch sqlErr.Code {
	case UniqueViolation:
		field := "identifier"
		if column := uniqueColumn(sqlErr.ConstraintName); column != "" {
			field = humanize(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName(sqlErr.TableName, ""), field)
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entity)
	case NotNullViolation:
		field := humanize(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		if field := humanize(sqlErr.ColumnName); field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// HTTPStatus はエラーの種類に対応する HTTP ステータスを返します
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case ErrCode(err) == UniqueViolation:
		return http.StatusConflict
	case errors.Is(err, ErrConstraintViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// entityName はテーブル名またはカラム名からエンティティ名を推測します
// "owner_id" -> "Owner", "users" -> "User"
func entityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanize(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanize(entity)
	}

	return "record"
}

// uniqueColumn は一意制約名からカラム名を取り出します
// "users_email_key" -> "email"
func uniqueColumn(constraintName string) string {
	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
