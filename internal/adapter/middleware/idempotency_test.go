package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"club-event-approval/internal/domain/access"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testReqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// helper: new Echo with a fixed caller, the middleware and a simple route
func setupEcho(rdb redis.Cmdable, ttl time.Duration, subject string, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject != "" {
				c.Set(identityKey, access.Identity{Subject: subject, Role: access.RoleAdmin})
			}
			return next(c)
		}
	})
	e.Use(Idempotency(rdb, ttl, nil))
	e.POST("/applications", handler)
	e.GET("/applications", handler) // for non-mutating bypass test
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		headerRequestID: testReqID,
		headerRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// counting handler to exercise respRecorder capture & saveFinal
func countingHandler(calls *int32, code int) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := atomic.AddInt32(calls, 1)
		return c.JSON(code, map[string]any{"call": n})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 30*time.Second, "", countingHandler(&calls, http.StatusOK))
	if rec := doReq(t, e, http.MethodGet, "/applications", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 30*time.Second, "acct-1", countingHandler(&calls, http.StatusCreated))

	cases := map[string]map[string]string{
		"missing request id": {headerRequestAt: time.Now().UTC().Format(time.RFC3339)},
		"invalid request id": {headerRequestID: "NOT-VALID", headerRequestAt: time.Now().UTC().Format(time.RFC3339)},
		"invalid request at": {headerRequestID: testReqID, headerRequestAt: "not-a-time"},
		"skewed request at":  {headerRequestID: testReqID, headerRequestAt: time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)},
	}
	for name, h := range cases {
		rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{"x":1}`)), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => want 400, got %d", name, rec.Code)
		}
	}
	if calls != 0 {
		t.Fatalf("handler must not run on header errors, ran %d times", calls)
	}
}

func Test_RequiresIdentity(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, time.Minute, "", countingHandler(&calls, http.StatusCreated))
	if rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{}`)), validHeaders()); rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, "acct-1", countingHandler(&calls, http.StatusCreated))

	h := validHeaders()
	rec1 := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{"event_name":"x"}`)), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{"event_name":"x"}`)), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get(headerReplayed) != "true" {
		t.Fatalf("replay header missing")
	}
	if calls != 1 {
		t.Fatalf("handler should run once, ran %d times", calls)
	}
}

func Test_SameRequestID_DifferentCallers_AreIndependent(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	h := validHeaders()
	for _, subject := range []string{"acct-1", "acct-2"} {
		e := setupEcho(rdb, time.Minute, subject, countingHandler(&calls, http.StatusCreated))
		if rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{}`)), h); rec.Code != http.StatusCreated {
			t.Fatalf("%s => want 201, got %d", subject, rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("each caller should reach the handler, calls=%d", calls)
	}
}

func Test_ConflictResponses_AreNotReplayed(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, time.Minute, "acct-1", countingHandler(&calls, http.StatusConflict))

	h := validHeaders()
	for i := 0; i < 2; i++ {
		if rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{}`)), h); rec.Code != http.StatusConflict {
			t.Fatalf("want 409, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("a conflict must release the key so the retry runs, calls=%d", calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, "acct-1", countingHandler(&calls, http.StatusCreated))

	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, "/applications", "acct-1", testReqID)
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_SameReqID_DifferentBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, "acct-1", countingHandler(&calls, http.StatusCreated))

	key := buildKey(http.MethodPost, "/applications", "acct-1", testReqID)
	final := idempEntry{
		Code:        http.StatusCreated,
		Body:        []byte(`{"ok":true}`),
		BodySHA256:  bodyHash([]byte(`{"x":1}`)),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{"x":2}`)), validHeaders())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("different body same reqID => want 422, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	var calls int32
	e := setupEcho(rdb, time.Minute, "acct-1", countingHandler(&calls, http.StatusCreated))

	rec := doReq(t, e, http.MethodPost, "/applications", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
