package notify

import "testing"

func TestUrgencyValues(t *testing.T) {
	tests := []struct {
		urgency Urgency
		want    byte
	}{
		{UrgencyLow, 0},
		{UrgencyNormal, 1},
		{UrgencyCritical, 2},
	}
	for _, tt := range tests {
		if byte(tt.urgency) != tt.want {
			t.Errorf("urgency = %d, want %d", tt.urgency, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	id, err := Discard.Notify(Notification{Title: "x"})
	if err != nil || id != 0 {
		t.Errorf("Discard.Notify() = %d, %v; want 0, nil", id, err)
	}
	if err := Discard.Close(7); err != nil {
		t.Errorf("Discard.Close() = %v", err)
	}
}
