package repository

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/uma-arai/lightbnb/internal/logger"
)

// newMockDB はsqlmockを使ったテスト用のDBを作成します
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}

	db := NewDBFromConn(conn, logger.Nop())
	t.Cleanup(func() {
		mock.ExpectClose()
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	return db, mock
}

// newTestContext はX-Rayのセグメント付きのコンテキストを作成します
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, seg := xray.BeginSegment(context.Background(), t.Name())
	t.Cleanup(func() { seg.Close(nil) })
	return ctx
}

var userColumns = []string{"id", "name", "email", "password"}

var propertyRowColumns = []string{
	"id", "owner_id", "title", "description", "thumbnail_photo_url", "cover_photo_url",
	"cost_per_night", "parking_spaces", "number_of_bathrooms", "number_of_bedrooms",
	"country", "street", "city", "province", "post_code", "active",
}

func propertyRowValues(id, ownerID, cost int64, city string) []driver.Value {
	return []driver.Value{
		id, ownerID, "Speed lamp", "description", "https://example.com/thumb.jpg", "https://example.com/cover.jpg",
		cost, 6, 4, 8,
		"Canada", "536 Namsub Highway", city, "Quebec", "28142", true,
	}
}

func toDriverArgs(args []interface{}) []driver.Value {
	values := make([]driver.Value, len(args))
	for i, arg := range args {
		values[i] = arg
	}
	return values
}
