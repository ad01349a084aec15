package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "full format", input: "09:30:00", want: "09:30:00"},
		{name: "short format", input: "18:00", want: "18:00:00"},
		{name: "seconds kept", input: "07:05:09", want: "07:05:09"},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "hour out of range", input: "25:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := MustTimeString("09:00:00")

	assert.Equal(t, "09:30:00", start.AddMinutes(30).String())
	assert.Equal(t, "00:15:00", MustTimeString("23:45").AddMinutes(30).String())
	assert.Equal(t, 540, start.Minutes())
	assert.Equal(t, 90, start.MinutesUntil(MustTimeString("10:30:00")))
	assert.True(t, start.IsBefore(MustTimeString("09:00:01")))
	assert.True(t, MustTimeString("10:00").IsAfter(start))
	assert.True(t, start.Equal(MustTimeString("09:00")))
}

func TestNewTimeString(t *testing.T) {
	ts, err := NewTimeString(8, 0)
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", ts.String())
	assert.NoError(t, ts.Validate())

	_, err = NewTimeString(24, 0)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	var zero TimeString
	assert.Error(t, zero.Validate())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "14:30:00", ts.String())

	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, "08:00:00", ts.String())

	require.NoError(t, ts.Scan("17:30:00"))
	assert.Equal(t, "17:30:00", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := MustTimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", v)

	v, err = TimeString{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_JSON(t *testing.T) {
	data, err := MustTimeString("10:00").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"10:00:00"`, string(data))

	var ts TimeString
	require.NoError(t, ts.UnmarshalJSON([]byte(`"11:30"`)))
	assert.Equal(t, "11:30:00", ts.String())

	assert.Error(t, ts.UnmarshalJSON([]byte(`"later"`)))
}
