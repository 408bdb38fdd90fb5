package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		wantTracing bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:    "DBユーザー未設定はエラー",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "既定値を使用",
			env:  map[string]string{"LIGHTBNB_DB_USER": "lightbnb"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Env != "local" {
					t.Errorf("Env = %s, want local", cfg.Env)
				}
				if cfg.DB.Host != "localhost" || cfg.DB.Port != 5432 || cfg.DB.DBName != "lightbnb" {
					t.Errorf("DB = %+v", cfg.DB)
				}
				if cfg.DB.QueryTimeout != 10*time.Second {
					t.Errorf("QueryTimeout = %v, want 10s", cfg.DB.QueryTimeout)
				}
				if cfg.Log.Level != "info" {
					t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
				}
			},
		},
		{
			name: "環境変数で上書き",
			env: map[string]string{
				"LIGHTBNB_ENV":                "production",
				"LIGHTBNB_DB_HOST":            "db.internal",
				"LIGHTBNB_DB_PORT":            "6543",
				"LIGHTBNB_DB_USER":            "app",
				"LIGHTBNB_DB_PASSWORD":        "secret",
				"LIGHTBNB_DB_MAXOPENCONNS":    "50",
				"LIGHTBNB_DB_CONNMAXLIFETIME": "1m",
				"LIGHTBNB_DB_QUERYTIMEOUT":    "3s",
				"LIGHTBNB_LOG_LEVEL":          "debug",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Env != "production" {
					t.Errorf("Env = %s, want production", cfg.Env)
				}
				if cfg.DB.Host != "db.internal" || cfg.DB.Port != 6543 {
					t.Errorf("DB = %+v", cfg.DB)
				}
				if cfg.DB.UserName != "app" || cfg.DB.Password != "secret" {
					t.Errorf("DB credentials = %s/%s", cfg.DB.UserName, cfg.DB.Password)
				}
				if cfg.DB.MaxOpenConns != 50 {
					t.Errorf("MaxOpenConns = %d, want 50", cfg.DB.MaxOpenConns)
				}
				if cfg.DB.ConnMaxLifetime != time.Minute || cfg.DB.QueryTimeout != 3*time.Second {
					t.Errorf("durations = %v, %v", cfg.DB.ConnMaxLifetime, cfg.DB.QueryTimeout)
				}
				if cfg.Log.Level != "debug" {
					t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
				}
			},
		},
		{
			name: "不正な環境名",
			env: map[string]string{
				"LIGHTBNB_ENV":     "qa",
				"LIGHTBNB_DB_USER": "app",
			},
			wantErr: true,
		},
		{
			name: "不正なSSLモード",
			env: map[string]string{
				"LIGHTBNB_DB_USER":    "app",
				"LIGHTBNB_DB_SSLMODE": "sometimes",
			},
			wantErr: true,
		},
		{
			name: "トレースを有効化",
			env: map[string]string{
				"LIGHTBNB_DB_USER":         "app",
				"LIGHTBNB_TRACING_ENABLED": "true",
			},
			wantTracing: true,
		},
		{
			name: "SDK無効化はトレース設定より優先",
			env: map[string]string{
				"LIGHTBNB_DB_USER":         "app",
				"LIGHTBNB_TRACING_ENABLED": "true",
				"AWS_XRAY_SDK_DISABLED":    "true",
			},
			wantTracing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Load が書き換えるため先に登録して後始末させる
			t.Setenv("AWS_XRAY_SDK_DISABLED", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if cfg.EnableTracing != tt.wantTracing {
				t.Errorf("EnableTracing = %v, want %v", cfg.EnableTracing, tt.wantTracing)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "LIGHTBNB_ENV", want: "env"},
		{in: "LIGHTBNB_DB_HOST", want: "db.host"},
		{in: "LIGHTBNB_DB_MAXOPENCONNS", want: "db.maxopenconns"},
		{in: "LIGHTBNB_TRACING_ENABLED", want: "tracing.enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := envKey(tt.in); got != tt.want {
				t.Errorf("envKey(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
