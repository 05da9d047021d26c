package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hgl-backend/internal/models"
)

func TestRecordFeedDeliversEvents(t *testing.T) {
	feed := NewRecordFeed()
	go feed.Run()
	defer feed.Close()

	srv := httptest.NewServer(http.HandlerFunc(feed.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	feed.Publish(models.RecordEvent{Type: models.EventRecordsCleared, At: time.Now()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.RecordEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.EventRecordsCleared, got.Type)
}

func TestPublishNeverBlocks(t *testing.T) {
	feed := NewRecordFeed()
	// Run is not started, so the queue fills up
	for i := 0; i < queueSize*2; i++ {
		feed.Publish(models.RecordEvent{Type: models.EventIntakeCreated})
	}
	assert.Len(t, feed.broadcast, queueSize)
}
