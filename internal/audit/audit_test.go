package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ MemoryStore }

func (f *failingStore) Insert(ctx context.Context, event *Event) error {
	return errors.New("database is down")
}

func TestLogger_RecordFillsDefaults(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, nil)
	actor := uuid.New()
	asset := uuid.New()

	ctx := WithRequest(context.Background(), RequestInfo{IPAddress: "10.0.0.1", RequestID: "req-1"})
	logger.Record(ctx, Event{
		ActorID:      &actor,
		ResourceType: ResourceTypeAsset,
		ResourceID:   &asset,
		Action:       ActionFinalize,
	})
	logger.Wait()

	events, err := logger.Query(context.Background(), QueryFilter{ResourceID: &asset})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "finalize_asset", e.EventType)
	assert.Equal(t, ActorTypeUser, e.ActorType)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, "10.0.0.1", e.IPAddress)
	assert.Equal(t, "req-1", e.RequestID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestLogger_RecordRedactsCredentials(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, nil)
	job := uuid.New()

	logger.Record(context.Background(), Event{
		ResourceType: ResourceTypeJob,
		ResourceID:   &job,
		Action:       ActionCreate,
		Status:       StatusFailure,
		Metadata:     map[string]any{"title": "Poster", "api_key": "k-123"},
		ErrorMessage: "upstream rejected token=abc",
	})
	logger.Wait()

	events, err := logger.Query(context.Background(), QueryFilter{ResourceID: &job})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Poster", events[0].Metadata["title"])
	assert.Equal(t, "[REDACTED]", events[0].Metadata["api_key"])
	assert.Equal(t, "upstream rejected token=[REDACTED]", events[0].ErrorMessage)
}

func TestLogger_StoreFailureIsSwallowed(t *testing.T) {
	logger := NewLogger(&failingStore{}, nil)

	assert.NotPanics(t, func() {
		logger.Record(context.Background(), Event{ResourceType: ResourceTypeJob, Action: ActionComplete})
		logger.Wait()
	})
}

func TestMemoryStore_QueryFilters(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, nil)

	for i := 0; i < 3; i++ {
		logger.Record(context.Background(), Event{ResourceType: ResourceTypePayment, Action: ActionUpdate})
	}
	logger.Record(context.Background(), Event{ResourceType: ResourceTypeAssignment, Action: ActionRemove})
	logger.Wait()

	payments := ResourceTypePayment
	events, err := logger.Query(context.Background(), QueryFilter{ResourceType: &payments, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	all, err := logger.Query(context.Background(), QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := logger.Query(context.Background(), QueryFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMiddleware_AttachesRequestInfo(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "studio-test")
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-42")
	c := e.NewContext(req, rec)

	var got RequestInfo
	err := Middleware()(func(c echo.Context) error {
		info, ok := requestFrom(c.Request().Context())
		require.True(t, ok)
		got = info
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "studio-test", got.UserAgent)
	assert.Equal(t, "req-42", got.RequestID)
}
