package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewAppointment_ForcesPending(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	req := BookingRequest{
		DoctorID:     "d1",
		PatientName:  " Jane ",
		PatientPhone: "555",
		Date:         "2025-03-01",
		Time:         "09:00:00",
		Status:       "confirmed",
	}

	apt, err := NewAppointment("u1", req, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if apt.Status != StatusPending {
		t.Errorf("expected pending, got %q", apt.Status)
	}
	if apt.Time != "09:00" {
		t.Errorf("expected normalised time 09:00, got %q", apt.Time)
	}
	if apt.PatientName != "Jane" {
		t.Errorf("expected trimmed name, got %q", apt.PatientName)
	}
	if apt.ID == "" || apt.Version != 1 || !apt.CreatedAt.Equal(now) {
		t.Errorf("unexpected bookkeeping fields: %+v", apt)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"14:30:00", "14:30", false},
		{" 7:05 ", "07:05", false},
		{"25:00", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}

func TestParseTargetStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"confirmed", StatusConfirmed, false},
		{" Cancelled ", StatusCancelled, false},
		{"pending", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTargetStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Fatalf("expected ErrInvalidStatus, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
