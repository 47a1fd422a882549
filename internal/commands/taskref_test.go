package commands

import (
	"testing"
)

func TestParseTaskNum(t *testing.T) {
	num, err := ParseTaskNum([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 5 {
		t.Errorf("expected 5, got %d", num)
	}
}

func TestParseTaskNum_LeadingZeros(t *testing.T) {
	num, err := ParseTaskNum([]string{"007"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 7 {
		t.Errorf("expected 7, got %d", num)
	}
}

func TestParseTaskNum_Required(t *testing.T) {
	_, err := ParseTaskNum(nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskNum_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		msg  string
	}{
		{[]string{"a1"}, "invalid task number: a1"},
		{[]string{"-1"}, "invalid task number: -1"},
		{[]string{"1.5"}, "invalid task number: 1.5"},
		{[]string{"٣"}, "invalid task number: ٣"},
		{[]string{"99999999999999999999"}, "invalid task number: 99999999999999999999"},
		{[]string{"1", "x"}, "unexpected argument: x"},
	}
	for _, tt := range tests {
		_, err := ParseTaskNum(tt.args)
		if err == nil {
			t.Errorf("%q: expected error", tt.args)
			continue
		}
		if err.Error() != tt.msg {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.msg, err.Error())
		}
	}
}
