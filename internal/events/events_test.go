package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := encode(Event{Type: ProjectCreated, Subject: "p1", At: at, Data: map[string]string{"title": "x"}})
	require.NoError(t, err)

	assert.Equal(t, []byte("p1"), msg.Key)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, []byte(ProjectCreated), msg.Headers[0].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "project_created", decoded["type"])
	assert.Equal(t, "p1", decoded["subject"])
	assert.Equal(t, "x", decoded["data"].(map[string]any)["title"])
}

func TestEncode_StampsTime(t *testing.T) {
	msg, err := encode(Event{Type: UserLoggedIn})
	require.NoError(t, err)
	assert.False(t, msg.Time.IsZero())
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t")
	require.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	require.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "portfolio_events")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), Event{Type: UserLoggedIn}))
	require.NoError(t, r.Publish(context.Background(), Event{Type: TokenRefreshed}))
	assert.Equal(t, []string{UserLoggedIn, TokenRefreshed}, r.Types())

	require.NoError(t, Nop{}.Publish(context.Background(), Event{Type: UserLoggedIn}))
}
