package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// propertyColumns は Property にスキャンする列です
// NULL を許容する列は空文字に変換します
const propertyColumns = `
	properties.id,
	properties.owner_id,
	properties.title,
	COALESCE(properties.description, '') AS description,
	COALESCE(properties.thumbnail_photo_url, '') AS thumbnail_photo_url,
	COALESCE(properties.cover_photo_url, '') AS cover_photo_url,
	properties.cost_per_night,
	properties.parking_spaces,
	properties.number_of_bathrooms,
	properties.number_of_bedrooms,
	properties.country,
	properties.street,
	properties.city,
	properties.province,
	properties.post_code,
	properties.active`

// whereBuilder は WHERE 句の条件とパラメータを組み立てます
// 条件は "?" をプレースホルダとして書き、Rebind で $n に変換します
type whereBuilder struct {
	predicates []string
	args       []interface{}
}

// add は条件とそのパラメータを追加します
func (b *whereBuilder) add(predicate string, arg interface{}) {
	b.predicates = append(b.predicates, predicate)
	b.args = append(b.args, arg)
}

// clause は条件を AND で連結した WHERE 句を返します
// 条件がなければ空文字を返します
func (b *whereBuilder) clause() string {
	if len(b.predicates) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.predicates, " AND ")
}

// rebind は "?" を PostgreSQL の $1, $2, ... に置き換えます
func rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}
