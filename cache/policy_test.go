package cache

import (
	"errors"
	"testing"
	"time"
)

func TestPolicy_ZeroValue(t *testing.T) {
	var p Policy

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.Expires() {
		t.Error("Expires() = true, want false for zero TTL")
	}
	if p.Exceeds(1_000_000) {
		t.Error("Exceeds() = true, want false when unbounded")
	}
	if p.Expired(time.Unix(0, 0), time.Unix(1<<40, 0)) {
		t.Error("Expired() = true, want false for zero TTL")
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{name: "unbounded", policy: Policy{}},
		{name: "ttl only", policy: Policy{TTL: time.Second}},
		{name: "bounded", policy: Policy{MaxEntries: 3, Bounded: true}},
		{name: "bounded zero", policy: Policy{MaxEntries: 0, Bounded: true}},
		{name: "negative ttl", policy: Policy{TTL: -time.Second}, wantErr: true},
		{name: "negative max entries", policy: Policy{MaxEntries: -1, Bounded: true}, wantErr: true},
		{name: "negative max entries unbounded", policy: Policy{MaxEntries: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestPolicy_ExpiredBoundary(t *testing.T) {
	p := Policy{TTL: time.Second}
	created := time.Unix(1000, 0)

	tests := []struct {
		age  time.Duration
		want bool
	}{
		{age: 0, want: false},
		{age: 500 * time.Millisecond, want: false},
		{age: time.Second - time.Nanosecond, want: false},
		{age: time.Second, want: true},
		{age: 1100 * time.Millisecond, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.age.String(), func(t *testing.T) {
			if got := p.Expired(created, created.Add(tt.age)); got != tt.want {
				t.Errorf("Expired(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestPolicy_Exceeds(t *testing.T) {
	p := Policy{MaxEntries: 3, Bounded: true}

	if p.Exceeds(3) {
		t.Error("Exceeds(3) = true, want false at capacity")
	}
	if !p.Exceeds(4) {
		t.Error("Exceeds(4) = false, want true over capacity")
	}

	zero := Policy{Bounded: true}
	if !zero.Exceeds(1) {
		t.Error("Exceeds(1) = false, want true with zero capacity")
	}
}
