package history

import (
	"errors"
	"testing"
	"time"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// Wednesday afternoon.
var now = time.Date(2024, time.March, 13, 15, 0, 0, 0, ist)

func billAt(no int64, t time.Time) entity.Bill {
	return entity.Bill{BillNo: no, CreatedAt: t}
}

func billNos(bills []entity.Bill) []int64 {
	out := make([]int64, len(bills))
	for i, b := range bills {
		out[i] = b.BillNo
	}
	return out
}

func equalNos(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, ist)
	return &t
}

// newest first, like the gateway returns them
func sampleBills() []entity.Bill {
	return []entity.Bill{
		billAt(7, time.Date(2024, time.March, 13, 14, 59, 0, 0, ist)),
		billAt(6, time.Date(2024, time.March, 13, 0, 0, 0, 0, ist)),
		billAt(5, time.Date(2024, time.March, 12, 23, 59, 59, 0, ist)),
		billAt(4, time.Date(2024, time.March, 10, 0, 0, 0, 0, ist)),
		billAt(3, time.Date(2024, time.March, 9, 23, 59, 59, 0, ist)),
		billAt(2, time.Date(2024, time.March, 1, 0, 0, 0, 0, ist)),
		billAt(1, time.Date(2024, time.February, 29, 23, 0, 0, 0, ist)),
	}
}

func TestApply_Ranges(t *testing.T) {
	cases := []struct {
		name     string
		sel      Selection
		expected []int64
	}{
		{"all", Selection{Range: RangeAll}, []int64{7, 6, 5, 4, 3, 2, 1}},
		{"today", Selection{Range: RangeToday}, []int64{7, 6}},
		{"week starts sunday", Selection{Range: RangeWeek}, []int64{7, 6, 5, 4}},
		{"month", Selection{Range: RangeMonth}, []int64{7, 6, 5, 4, 3, 2}},
		{"custom inclusive end", Selection{Range: RangeCustom, Start: date(2024, time.March, 9), End: date(2024, time.March, 12)}, []int64{5, 4, 3}},
		{"custom single day", Selection{Range: RangeCustom, Start: date(2024, time.February, 29), End: date(2024, time.February, 29)}, []int64{1}},
		{"custom incomplete is unfiltered", Selection{Range: RangeCustom, Start: date(2024, time.March, 9)}, []int64{7, 6, 5, 4, 3, 2, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := billNos(Apply(sampleBills(), tc.sel, now, ist))
			if !equalNos(got, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestApply_CustomMonthBoundaries(t *testing.T) {
	bills := []entity.Bill{
		billAt(3, time.Date(2024, time.February, 1, 0, 0, 1, 0, ist)),
		billAt(2, time.Date(2024, time.January, 31, 23, 59, 0, 0, ist)),
		billAt(1, time.Date(2024, time.January, 1, 0, 0, 0, 0, ist)),
	}
	sel := Selection{Range: RangeCustom, Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}

	cases := []struct {
		name     string
		bill     entity.Bill
		included bool
	}{
		{"first instant of start day", bills[2], true},
		{"last minute of end day", bills[1], true},
		{"just after end day", bills[0], false},
	}
	got := Apply(bills, sel, now, ist)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found := false
			for _, b := range got {
				if b.BillNo == tc.bill.BillNo {
					found = true
				}
			}
			if found != tc.included {
				t.Fatalf("bill at %s: included=%v, expected %v", tc.bill.CreatedAt, found, tc.included)
			}
		})
	}
}

func TestApply_EvaluatesInShopZone(t *testing.T) {
	// 2024-03-12 20:00 UTC is already 2024-03-13 01:30 in IST.
	bills := []entity.Bill{billAt(1, time.Date(2024, time.March, 12, 20, 0, 0, 0, time.UTC))}
	got := Apply(bills, Selection{Range: RangeToday}, now, ist)
	if len(got) != 1 {
		t.Fatalf("expected bill to count as today in shop zone")
	}
}

func TestApply_WeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, time.March, 10, 9, 0, 0, 0, ist)
	w := WindowFor(Selection{Range: RangeWeek}, sunday, ist)
	if !w.From.Equal(time.Date(2024, time.March, 10, 0, 0, 0, 0, ist)) {
		t.Fatalf("week should start on the same sunday, got %s", w.From)
	}
}

func TestParseRange(t *testing.T) {
	for in, expected := range map[string]Range{"": RangeAll, "Today": RangeToday, " week ": RangeWeek, "custom": RangeCustom} {
		got, err := ParseRange(in)
		if err != nil || got != expected {
			t.Fatalf("ParseRange(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseRange("year"); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("custom", "2024-03-01", "2024-03-05", ist)
	if err != nil {
		t.Fatalf("ParseSelection error: %v", err)
	}
	if !sel.Complete() || !sel.Start.Equal(*date(2024, time.March, 1)) {
		t.Fatalf("unexpected selection %+v", sel)
	}

	sel, err = ParseSelection("custom", "", "2024-03-05", ist)
	if err != nil {
		t.Fatalf("ParseSelection error: %v", err)
	}
	if sel.Complete() {
		t.Fatalf("selection without start should be incomplete")
	}

	if _, err := ParseSelection("custom", "03/01/2024", "", ist); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestSelector_KeepsPreviousOnIncompleteCustom(t *testing.T) {
	s := NewSelector()
	if !s.Select(Selection{Range: RangeWeek}) {
		t.Fatalf("week selection rejected")
	}
	if s.Select(Selection{Range: RangeCustom, End: date(2024, time.March, 5)}) {
		t.Fatalf("incomplete custom selection accepted")
	}
	if s.Current().Range != RangeWeek {
		t.Fatalf("expected previous filter to stay, got %s", s.Current().Range)
	}
}
