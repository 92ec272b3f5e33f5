package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	uu := map[string]struct {
		t time.Time
		e string
	}{
		"plain":    {t: time.Date(2023, time.March, 22, 9, 33, 0, 0, time.Local), e: "22-Mar-23"},
		"pad":      {t: time.Date(2009, time.January, 5, 0, 0, 0, 0, time.Local), e: "05-Jan-09"},
		"december": {t: time.Date(2024, time.December, 31, 23, 59, 0, 0, time.Local), e: "31-Dec-24"},
		"zero":     {e: InvalidDate},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, u.e, FormatDate(u.t))
		})
	}
}

func TestDateValue(t *testing.T) {
	t.Parallel()

	ref := time.Date(2023, time.March, 22, 9, 33, 0, 0, time.UTC)

	uu := map[string]struct {
		v    any
		zero bool
	}{
		"time":    {v: ref},
		"ptr":     {v: &ref},
		"millis":  {v: ref.UnixMilli()},
		"float":   {v: float64(ref.UnixMilli())},
		"iso":     {v: "2023-03-22T09:33:00Z"},
		"junk":    {v: "not a date", zero: true},
		"empty":   {v: "", zero: true},
		"nil-ptr": {v: (*time.Time)(nil), zero: true},
		"other":   {v: true, zero: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			v := DateValue(u.v)
			if u.zero {
				assert.True(t, v.IsZero())
				return
			}
			assert.True(t, ref.Equal(v))
		})
	}
}

func TestDateColumnsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"createdAt", "updatedAt"} {
		c, ok := GridColumns.Column(key)
		assert.True(t, ok)

		for _, raw := range []string{"2023-03-22T09:33:00Z", "2024-12-24", "March 3, 2023", "1679477580000"} {
			s := c.DisplayOf(c.ValueOf(raw))
			assert.NotEmpty(t, s, raw)
			assert.NotEqual(t, InvalidDate, s, raw)
			assert.Len(t, s, len(DateLayout), raw)
		}
		assert.Equal(t, InvalidDate, c.DisplayOf(c.ValueOf("bogus")))
	}
}
