package idempotency

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockKeyRepository struct {
	acquireLockFunc   func(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error)
	storeResponseFunc func(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error
	stored            *IdempotencyKey
}

func (m *mockKeyRepository) AcquireLock(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
	if m.acquireLockFunc != nil {
		return m.acquireLockFunc(ctx, key)
	}
	key.ID = primitive.NewObjectID()
	return key, true, nil
}

func (m *mockKeyRepository) ReleaseLock(ctx context.Context, keyID string) error {
	return nil
}

func (m *mockKeyRepository) StoreResponse(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error {
	if m.storeResponseFunc != nil {
		return m.storeResponseFunc(ctx, keyID, responseCode, responseBody, headers)
	}
	return nil
}

func (m *mockKeyRepository) Get(ctx context.Context, key, serviceID string) (*IdempotencyKey, error) {
	return nil, ErrNotFound
}

func (m *mockKeyRepository) Clean(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *mockKeyRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func setupRouter(config *Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(config))
	router.POST("/validate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func TestMiddleware_NoKeyOptional(t *testing.T) {
	config := DefaultConfig("rf-picking-service", &mockKeyRepository{})

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{"data":"test"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestMiddleware_NoKeyRequired(t *testing.T) {
	config := DefaultConfig("rf-picking-service", &mockKeyRepository{})
	config.RequireKey = true

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{"data":"test"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMiddleware_InvalidKey(t *testing.T) {
	config := DefaultConfig("rf-picking-service", &mockKeyRepository{})

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{"data":"test"}`))
	req.Header.Set(HeaderIdempotencyKey, "invalid key with spaces")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMiddleware_CompletedKeyReplaysResponse(t *testing.T) {
	body := []byte(`{"roundId":"R-100"}`)
	completedAt := time.Now().UTC().Add(-time.Minute)

	repo := &mockKeyRepository{
		acquireLockFunc: func(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
			return &IdempotencyKey{
				ID:                 primitive.NewObjectID(),
				Key:                key.Key,
				ServiceID:          key.ServiceID,
				RequestFingerprint: ComputeFingerprint(body),
				ResponseCode:       http.StatusOK,
				ResponseBody:       []byte(`{"cached":true}`),
				CompletedAt:        &completedAt,
				CreatedAt:          completedAt,
			}, false, nil
		},
	}
	config := DefaultConfig("rf-picking-service", repo)

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBuffer(body))
	req.Header.Set(HeaderIdempotencyKey, "retry-key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != `{"cached":true}` {
		t.Errorf("Expected cached body, got %s", w.Body.String())
	}
}

func TestMiddleware_CompletedKeyFingerprintMismatch(t *testing.T) {
	completedAt := time.Now().UTC().Add(-time.Minute)

	repo := &mockKeyRepository{
		acquireLockFunc: func(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
			return &IdempotencyKey{
				ID:                 primitive.NewObjectID(),
				Key:                key.Key,
				ServiceID:          key.ServiceID,
				RequestFingerprint: ComputeFingerprint([]byte(`{"roundId":"R-100"}`)),
				ResponseCode:       http.StatusOK,
				ResponseBody:       []byte(`{"cached":true}`),
				CompletedAt:        &completedAt,
				CreatedAt:          completedAt,
			}, false, nil
		},
	}
	config := DefaultConfig("rf-picking-service", repo)

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{"roundId":"R-999"}`))
	req.Header.Set(HeaderIdempotencyKey, "retry-key-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

func TestMiddleware_ConcurrentRequestConflicts(t *testing.T) {
	lockedAt := time.Now().UTC().Add(-time.Second)

	repo := &mockKeyRepository{
		acquireLockFunc: func(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
			return &IdempotencyKey{
				ID:        primitive.NewObjectID(),
				Key:       key.Key,
				ServiceID: key.ServiceID,
				LockedAt:  &lockedAt,
				CreatedAt: lockedAt,
			}, false, nil
		},
	}
	config := DefaultConfig("rf-picking-service", repo)

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{}`))
	req.Header.Set(HeaderIdempotencyKey, "inflight-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestMiddleware_NewRequestStoresResponse(t *testing.T) {
	var gotCode int
	var gotBody []byte

	repo := &mockKeyRepository{
		storeResponseFunc: func(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error {
			gotCode = responseCode
			gotBody = responseBody
			return nil
		},
	}
	config := DefaultConfig("rf-picking-service", repo)

	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewBufferString(`{"roundId":"R-100"}`))
	req.Header.Set(HeaderIdempotencyKey, "fresh-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotCode != http.StatusOK {
		t.Errorf("Stored response code = %d, want 200", gotCode)
	}
	if string(gotBody) != `{"message":"success"}` {
		t.Errorf("Stored response body = %s", gotBody)
	}
}

func TestMiddleware_SkipsNonMutatingMethods(t *testing.T) {
	called := false
	repo := &mockKeyRepository{
		acquireLockFunc: func(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
			called = true
			key.ID = primitive.NewObjectID()
			return key, true, nil
		},
	}
	config := DefaultConfig("rf-picking-service", repo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(config))
	router.GET("/sessions/abc", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
	req.Header.Set(HeaderIdempotencyKey, "get-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if called {
		t.Errorf("AcquireLock should not be called for GET requests")
	}
}
