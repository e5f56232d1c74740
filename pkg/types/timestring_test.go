package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.Error(t, err)

	_, err = NewTimeStringFromString("not a time")
	assert.Error(t, err)
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, 9, 13, 18, 30, 45, 0, time.UTC)
	assert.Equal(t, TimeString("18:30"), NewTimeString(moment))
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	_, err = TimeString("bad").Minutes()
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	result, err := TimeString("10:00").AddMinutes(120)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), result)

	// 24:00 представляет конец дня
	result, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), result)

	// Переход через полночь не поддерживается
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("21:00").IsAfter("20:59"))

	// Лексикографическое сравнение корректно благодаря ведущим нулям
	assert.True(t, TimeString("07:00").IsBefore("10:00"))
	assert.True(t, TimeString("21:00").IsBefore("24:00"))
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("07:00").Validate())
	assert.Error(t, TimeString("7:00am").Validate())
	assert.Error(t, TimeString("").Validate())
}
