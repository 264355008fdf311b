package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceSeries_FiltersSortsAndDedupes(t *testing.T) {
	raw := []Bar{
		{Timestamp: 3000, Open: 3, Close: 3},
		{Timestamp: 1000, Open: 1, Close: 1},
		{Timestamp: 2000, Open: 0, Close: 2},
		{Timestamp: 4000, Open: 4, Close: -1},
		{Timestamp: 3000, Open: 3, Close: 3.5},
		{Timestamp: 5000, Open: 5, Close: 5},
	}
	s := NewPriceSeries("GARAN.IS", raw)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []int64{1000, 3000, 5000}, s.Timestamps())
	assert.Equal(t, []float64{1, 3.5, 5}, s.Closes())
	assert.Equal(t, int64(3000), raw[0].Timestamp, "input must not be reordered")

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 5.0, last.Close)
}

func TestPriceSeries_AccessorsReturnCopies(t *testing.T) {
	s := NewPriceSeries("X", []Bar{{Timestamp: 1, Open: 1, Close: 1}})
	closes := s.Closes()
	closes[0] = 42
	bars := s.Bars()
	bars[0].Close = 42
	assert.Equal(t, 1.0, s.Bar(0).Close)

	var empty *PriceSeries
	assert.Equal(t, 0, empty.Len())
	_, ok := NewPriceSeries("X", nil).Last()
	assert.False(t, ok)
}

func TestValue_AbsentDistinctFromZero(t *testing.T) {
	zero := Some(0)
	var absent Value
	assert.NotEqual(t, zero, absent)

	b, err := json.Marshal([]Value{zero, absent, Some(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `[0, null, 1.5]`, string(b))

	var back []Value
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Value{zero, absent, Some(1.5)}, back)

	assert.Equal(t, Some(1), Some(3).Sub(Some(2)))
	assert.False(t, Some(3).Sub(absent).Valid)
	assert.Equal(t, "-", absent.String())
	assert.Equal(t, "1.50", Some(1.5).String())
}

func TestLastValue(t *testing.T) {
	points := []IndicatorPoint{{Value: Some(1)}, {Value: Some(2)}, {}}
	assert.Equal(t, Some(2), LastValue(points))
	assert.False(t, LastValue(nil).Valid)
}

func TestParseIndicatorKind(t *testing.T) {
	tests := []struct {
		in   string
		want IndicatorKind
		err  bool
	}{
		{"MA", KindMA, false},
		{"rsi", KindRSI, false},
		{" macd ", KindMACD, false},
		{"", KindNone, false},
		{"null", KindNone, false},
		{"off", KindNone, false},
		{"BOLL", KindNone, true},
	}
	for _, tt := range tests {
		got, err := ParseIndicatorKind(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestIndicatorKind_JSON(t *testing.T) {
	b, err := json.Marshal(KindNone)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(KindMACD)
	require.NoError(t, err)
	assert.Equal(t, `"MACD"`, string(b))

	var k IndicatorKind
	require.NoError(t, json.Unmarshal([]byte(`"RSI"`), &k))
	assert.Equal(t, KindRSI, k)
	require.NoError(t, json.Unmarshal([]byte(`null`), &k))
	assert.Equal(t, KindNone, k)
	assert.Error(t, json.Unmarshal([]byte(`"XYZ"`), &k))
}
