package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestNewBookingEvent(t *testing.T) {
	b := &domain.Booking{
		ID:        7,
		UserID:    1,
		Date:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("10:30"),
	}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	e := NewBookingEvent(TypeBookingCreated, b, 42, now)

	assert.Equal(t, Event{
		Type:       TypeBookingCreated,
		BookingID:  7,
		TelegramID: 42,
		Date:       "2024-06-03",
		StartTime:  "09:00:00",
		EndTime:    "10:30:00",
		OccurredAt: now,
	}, e)
}

func TestDecode(t *testing.T) {
	payload, err := json.Marshal(Event{Type: TypeBookingCancelled, BookingID: 3, Date: "2024-06-03"})
	require.NoError(t, err)

	e, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingCancelled, e.Type)
	assert.Equal(t, int64(3), e.BookingID)

	_, err = Decode([]byte("not json"))
	assert.ErrorIs(t, err, ErrEncode)

	_, err = Decode([]byte(`{"bookingId": 1}`))
	assert.ErrorIs(t, err, ErrEncode)
}

func TestFanout(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("redis down")}
	ok := &recordingPublisher{}
	e := Event{Type: TypeBookingCreated, BookingID: 1}

	err := Fanout{failing, nil, ok}.Publish(context.Background(), e)

	assert.Error(t, err)
	assert.Equal(t, []Event{e}, failing.events)
	assert.Equal(t, []Event{e}, ok.events)
	assert.NoError(t, Fanout{ok}.Publish(context.Background(), e))
	assert.NoError(t, Nop{}.Publish(context.Background(), e))
}
