package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qalamdan/porsesh/api"
	forumdb "github.com/qalamdan/porsesh/db"
	"github.com/qalamdan/porsesh/internal/config"
	"github.com/qalamdan/porsesh/internal/db"
	"github.com/qalamdan/porsesh/internal/repository/sqlite"
	"github.com/qalamdan/porsesh/pkg/models"
)

const testSecret = "testsecret"

// setupServer starts the full router against a fresh in-memory database.
func setupServer(t *testing.T) (*httptest.Server, *sqlite.SQLiteRepo) {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	d, err := db.New(ctx, "file:api_"+name+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(ctx, d, forumdb.Migrations, forumdb.SeedFiles); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
	}
	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", d, nil))
	t.Cleanup(srv.Close)

	return srv, sqlite.New(d)
}

// seedUser inserts a user at the given level directly, bypassing signup so
// tests can control levels.
func seedUser(t *testing.T, repo *sqlite.SQLiteRepo, name string, level int) *models.User {
	t.Helper()

	id, err := repo.CreateUser(context.Background(), &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		Level:        level,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	u, err := repo.GetUserByID(context.Background(), id)
	if err != nil || u == nil {
		t.Fatalf("load user %s: %v", name, err)
	}
	return u
}

// bearer mints a token the auth middleware accepts for the given user.
func bearer(t *testing.T, userID int64) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + s
}

// doJSON performs a request with an optional bearer token and JSON body and
// returns the status plus the raw response body.
func doJSON(t *testing.T, method, url, auth string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, data
}

func decodeInto(t *testing.T, data []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("unmarshal %s: %v", string(data), err)
	}
}
