package util

import (
	"reflect"
	"testing"
)

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		query  string
		fields []string
		want   bool
	}{
		{"", []string{"anything"}, true},
		{"crick", []string{"Priya", "Cricket, Tennis", "Pune"}, true},
		{"PUNE", []string{"Priya", "", "pune"}, true},
		{"  pri ", []string{"Priya"}, true},
		{"golf", []string{"Priya", "Cricket", "Pune"}, false},
		{"x", nil, false},
	}
	for _, tt := range tests {
		if got := MatchesQuery(tt.query, tt.fields...); got != tt.want {
			t.Errorf("MatchesQuery(%q, %v) = %t, want %t", tt.query, tt.fields, got, tt.want)
		}
	}
}

func TestSplitAndJoinList(t *testing.T) {
	got := SplitList(" Cricket, ,Football ,  Kabaddi,")
	want := []string{"Cricket", "Football", "Kabaddi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList = %v, want %v", got, want)
	}
	if got := SplitList(""); len(got) != 0 || got == nil {
		t.Errorf("SplitList(\"\") = %#v, want empty non-nil slice", got)
	}
	if got := JoinList([]string{"Cricket", " ", "Football "}); got != "Cricket, Football" {
		t.Errorf("JoinList = %q", got)
	}
}
