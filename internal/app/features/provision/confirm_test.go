// internal/app/features/provision/confirm_test.go
package provision

import (
	"testing"
	"time"
)

func TestConfirmWithinWindow(t *testing.T) {
	k := newConfirmKeeper(time.Minute, nil)

	k.Arm("user-1", "chan-1")
	if !k.Confirm("user-1", "chan-1") {
		t.Error("matching confirmation rejected")
	}
	// Already resolved; a second confirmation is a no-op.
	if k.Confirm("user-1", "chan-1") {
		t.Error("second confirmation accepted")
	}
}

func TestConfirmWrongUserOrChannel(t *testing.T) {
	k := newConfirmKeeper(time.Minute, nil)
	k.Arm("user-1", "chan-1")

	if k.Confirm("user-2", "chan-1") {
		t.Error("confirmation from another user accepted")
	}
	if k.Confirm("user-1", "chan-2") {
		t.Error("confirmation in another channel accepted")
	}
	// The original arm is still live.
	if !k.Confirm("user-1", "chan-1") {
		t.Error("matching confirmation rejected after mismatched attempts")
	}
}

func TestConfirmUnarmed(t *testing.T) {
	k := newConfirmKeeper(time.Minute, nil)
	if k.Confirm("user-1", "chan-1") {
		t.Error("confirmation accepted with nothing armed")
	}
}

func TestConfirmExpiry(t *testing.T) {
	expired := make(chan string, 1)
	k := newConfirmKeeper(10*time.Millisecond, func(_, channelID string) {
		expired <- channelID
	})

	k.Arm("user-1", "chan-1")

	select {
	case ch := <-expired:
		if ch != "chan-1" {
			t.Errorf("expired channel = %q, want chan-1", ch)
		}
	case <-time.After(time.Second):
		t.Fatal("expiry callback never fired")
	}

	if k.Confirm("user-1", "chan-1") {
		t.Error("confirmation accepted after expiry")
	}
}

func TestConfirmRearmReplacesPending(t *testing.T) {
	expired := make(chan string, 2)
	k := newConfirmKeeper(time.Minute, func(_, channelID string) {
		expired <- channelID
	})

	k.Arm("user-1", "chan-1")
	k.Arm("user-2", "chan-2")

	if k.Confirm("user-1", "chan-1") {
		t.Error("replaced confirmation still accepted")
	}
	if !k.Confirm("user-2", "chan-2") {
		t.Error("latest confirmation rejected")
	}

	select {
	case ch := <-expired:
		t.Errorf("unexpected expiry for %q", ch)
	case <-time.After(50 * time.Millisecond):
	}
}
