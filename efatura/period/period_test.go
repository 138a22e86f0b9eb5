package period

import (
	"testing"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(efatura.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPlan_LeapYear(t *testing.T) {
	ranges, err := Plan("2024-01-15", "2024-03-10")
	require.NoError(t, err)

	assert.Equal(t, []efatura.SubRange{
		{Start: d("2024-01-15"), End: d("2024-01-31")},
		{Start: d("2024-02-01"), End: d("2024-02-29")},
		{Start: d("2024-03-01"), End: d("2024-03-10")},
	}, ranges)
}

func TestPlan_Cases(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{"single day", "2023-06-07", "2023-06-07", []string{"2023-06-07..2023-06-07"}},
		{"whole month", "2023-02-01", "2023-02-28", []string{"2023-02-01..2023-02-28"}},
		{"month boundary", "2023-01-31", "2023-02-01", []string{"2023-01-31..2023-01-31", "2023-02-01..2023-02-01"}},
		{"year boundary", "2023-12-20", "2024-01-05", []string{"2023-12-20..2023-12-31", "2024-01-01..2024-01-05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := Plan(tt.start, tt.end)
			require.NoError(t, err)
			var got []string
			for _, r := range ranges {
				got = append(got, r.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_Properties(t *testing.T) {
	start := d("2021-11-03")
	for days := 0; days < 800; days += 13 {
		end := start.AddDate(0, 0, days)
		ranges, err := Split(start, end)
		require.NoError(t, err)
		require.NotEmpty(t, ranges)

		assert.Equal(t, start, ranges[0].Start)
		assert.Equal(t, end, ranges[len(ranges)-1].End)
		for i, r := range ranges {
			assert.False(t, r.Start.After(r.End))
			assert.Equal(t, r.Start.Month(), r.End.Month(), "range %s crosses a month", r)
			assert.Equal(t, r.Start.Year(), r.End.Year())
			if i > 0 {
				assert.Equal(t, ranges[i-1].End.AddDate(0, 0, 1), r.Start, "gap or overlap before %s", r)
			}
		}
	}
}

func TestPlan_Invalid(t *testing.T) {
	for _, c := range [][2]string{
		{"2024-13-01", "2024-12-31"},
		{"2024-01-01", "2024-02-30"},
		{"01/01/2024", "2024-02-01"},
		{"", "2024-02-01"},
		{"2024-03-01", "2024-02-01"},
	} {
		ranges, err := Plan(c[0], c[1])
		assert.Empty(t, ranges)
		var ve *efatura.ValidationError
		assert.ErrorAs(t, err, &ve, "%v", c)
	}
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, d("2024-02-29"), EndOfMonth(d("2024-02-10")))
	assert.Equal(t, d("2023-02-28"), EndOfMonth(d("2023-02-10")))
	assert.Equal(t, d("2023-12-31"), EndOfMonth(d("2023-12-31")))
}
