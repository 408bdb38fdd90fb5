package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const driverName = "postgres"

// DB はコネクションプールを保持します
// 呼び出し側が生成し、不要になったら Close してください
type DB struct {
	*sqlx.DB
	log *zerolog.Logger
}

type DBConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required,gt=0,lt=65536"`
	UserName        string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password"`
	DBName          string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"sslmode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int           `koanf:"maxopenconns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"maxidleconns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"connmaxlifetime" validate:"gte=0"`
	QueryTimeout    time.Duration `koanf:"querytimeout" validate:"gte=0"`
}

// DSN は lib/pq が受け付ける postgres:// 形式の接続文字列を返します
// ユーザー名やパスワードに含まれる記号は net/url がエスケープします
func (c *DBConfig) DSN() string {
	query := url.Values{}
	query.Set("sslmode", c.SSLMode)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.UserName, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// NewDB はX-Ray対応のコネクションプールを作成し、接続を確認します
func NewDB(ctx context.Context, cfg *DBConfig, logger *zerolog.Logger) (*DB, error) {
	// X-Ray対応のSQLコンテキストを作成
	db, err := xray.SQLContext(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database with X-Ray: %w", err)
	}

	// コネクションプールの設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 接続テスト
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.DBName).
		Msg("DB connected successfully")

	return NewDBFromConn(db, logger), nil
}

// NewDBFromConn は既存の *sql.DB をラップします
// テストでは sqlmock の接続を渡します
func NewDBFromConn(conn *sql.DB, logger *zerolog.Logger) *DB {
	return &DB{DB: sqlx.NewDb(conn, driverName), log: logger}
}

// Close closes the database connection
func (db *DB) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.DB.Close()
}

// GetContext wraps sqlx.DB.GetContext with X-Ray tracing
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, seg := db.beginQuery(ctx, "DB.Get", query)
	err := db.DB.GetContext(ctx, dest, query, args...)
	closeSegment(seg, err)
	return err
}

// SelectContext wraps sqlx.DB.SelectContext with X-Ray tracing
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, seg := db.beginQuery(ctx, "DB.Select", query)
	err := db.DB.SelectContext(ctx, dest, query, args...)
	closeSegment(seg, err)
	return err
}

// ExecContext wraps sqlx.DB.ExecContext with X-Ray tracing
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, seg := db.beginQuery(ctx, "DB.Exec", query)
	result, err := db.DB.ExecContext(ctx, query, args...)
	closeSegment(seg, err)
	return result, err
}

func (db *DB) beginQuery(ctx context.Context, name, query string) (context.Context, *xray.Segment) {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return ctx, nil
	}

	// クエリをメタデータとして追加
	if err := seg.AddMetadata("query", query); err != nil {
		db.log.Warn().Err(err).Msg("Failed to add query metadata")
	}
	return ctx, seg
}

// traceOp はリポジトリ操作のX-Rayサブセグメントを開始します
// 親セグメントがない場合は何もしません
func traceOp(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	return ctx, func(err error) {
		closeSegment(seg, err)
	}
}

func closeSegment(seg *xray.Segment, err error) {
	if seg != nil {
		seg.Close(err)
	}
}
