package repository

import (
	"net/url"
	"testing"

	"github.com/lib/pq"
)

func TestDBConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DBConfig
		wantHost string
	}{
		{
			name: "通常の値",
			cfg: DBConfig{
				Host: "localhost", Port: 5432, UserName: "lightbnb", Password: "password",
				DBName: "lightbnb", SSLMode: "disable",
			},
			wantHost: "localhost:5432",
		},
		{
			name: "記号を含む認証情報",
			cfg: DBConfig{
				Host: "db.internal", Port: 6543, UserName: "app user", Password: "p@ss:w/o'rd \\ #?",
				DBName: "light bnb", SSLMode: "require",
			},
			wantHost: "db.internal:6543",
		},
		{
			name: "空のパスワード",
			cfg: DBConfig{
				Host: "localhost", Port: 5432, UserName: "lightbnb",
				DBName: "lightbnb", SSLMode: "disable",
			},
			wantHost: "localhost:5432",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.cfg.DSN()

			if _, err := pq.ParseURL(dsn); err != nil {
				t.Fatalf("pq.ParseURL(%q) error = %v", dsn, err)
			}

			u, err := url.Parse(dsn)
			if err != nil {
				t.Fatalf("url.Parse(%q) error = %v", dsn, err)
			}
			if u.Scheme != "postgres" || u.Host != tt.wantHost {
				t.Errorf("DSN() = %q, want postgres://...@%s", dsn, tt.wantHost)
			}
			if u.User.Username() != tt.cfg.UserName {
				t.Errorf("user = %q, want %q", u.User.Username(), tt.cfg.UserName)
			}
			if password, _ := u.User.Password(); password != tt.cfg.Password {
				t.Errorf("password = %q, want %q", password, tt.cfg.Password)
			}
			if u.Path != "/"+tt.cfg.DBName {
				t.Errorf("path = %q, want %q", u.Path, "/"+tt.cfg.DBName)
			}
			if got := u.Query().Get("sslmode"); got != tt.cfg.SSLMode {
				t.Errorf("sslmode = %q, want %q", got, tt.cfg.SSLMode)
			}
		})
	}
}
