package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"bear/internal/platform/store/pg"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

// plainRunner is a TxRunner that cannot ping
type plainRunner struct{ TxRunner }

func TestGuard(t *testing.T) {
	pingOK, _ := pgxmock.NewPool()
	pingOK.ExpectPing()
	pingDown, _ := pgxmock.NewPool()
	pingDown.ExpectPing().WillReturnError(errors.New("connection refused"))

	tests := []struct {
		name    string
		store   *Store
		wantErr string
	}{
		{name: "nil store", store: nil, wantErr: "nil store"},
		{name: "no backends", store: &Store{}},
		{name: "runner without ping", store: &Store{PG: plainRunner{}}},
		{name: "ping ok", store: &Store{PG: NewPGRunner(pg.New(pingOK, nil, 0))}},
		{name: "ping fails", store: &Store{PG: NewPGRunner(pg.New(pingDown, nil, 0))}, wantErr: "pg: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.store.Guard(context.Background())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Guard: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Guard = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{AppName: "bear-api"}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	s.Log.Info().Msg("store up")
	if !strings.Contains(buf.String(), "store up") {
		t.Fatalf("log output = %q", buf.String())
	}
}
