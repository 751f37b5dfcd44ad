package order

import "testing"

func TestStatusStage(t *testing.T) {
	tests := map[string]struct {
		status       Status
		wantStep     int
		wantPercent  int
		wantLabel    string
		wantTerminal bool
	}{
		"pending":    {status: StatusPending, wantStep: 1, wantPercent: 25, wantLabel: "Pending"},
		"processing": {status: StatusProcessing, wantStep: 2, wantPercent: 50, wantLabel: "Processing"},
		"shipped":    {status: StatusShipped, wantStep: 3, wantPercent: 75, wantLabel: "Shipped"},
		"delivered":  {status: StatusDelivered, wantStep: 4, wantPercent: 100, wantLabel: "Delivered"},
		"cancelled":  {status: StatusCancelled, wantStep: 0, wantPercent: 0, wantLabel: "Cancelled", wantTerminal: true},
		"unknown falls back to pending": {
			status: Status("misplaced"), wantStep: 1, wantPercent: 25, wantLabel: "Pending",
		},
		"empty falls back to pending": {
			status: Status(""), wantStep: 1, wantPercent: 25, wantLabel: "Pending",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			st := tt.status.Stage()
			if st.Step != tt.wantStep {
				t.Errorf("step = %d, want %d", st.Step, tt.wantStep)
			}
			if st.Percent != tt.wantPercent {
				t.Errorf("percent = %d, want %d", st.Percent, tt.wantPercent)
			}
			if st.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", st.Label, tt.wantLabel)
			}
			if st.Terminal != tt.wantTerminal {
				t.Errorf("terminal = %v, want %v", st.Terminal, tt.wantTerminal)
			}
		})
	}
}

func TestCancelledShortCircuitsProgress(t *testing.T) {
	st := StatusCancelled.Stage()
	if !st.Terminal {
		t.Fatal("cancelled must be terminal")
	}
	if st.Percent != 0 || st.Step != 0 {
		t.Fatalf("cancelled must not map onto the linear scale, got step=%d percent=%d", st.Step, st.Percent)
	}
}

func TestParseStatus(t *testing.T) {
	if got := ParseStatus("shipped"); got != StatusShipped {
		t.Fatalf("ParseStatus(shipped) = %q", got)
	}
	if got := ParseStatus("returned-to-sender"); got != StatusPending {
		t.Fatalf("unknown status should parse as pending, got %q", got)
	}
}

func TestMethodFromLabel(t *testing.T) {
	m, ok := MethodFromLabel("Razorpay")
	if !ok || m != MethodRazorpay {
		t.Fatalf("MethodFromLabel(Razorpay) = %q, %v", m, ok)
	}
	if _, ok := MethodFromLabel("Carrier Pigeon"); ok {
		t.Fatal("unknown label must not resolve")
	}
}
