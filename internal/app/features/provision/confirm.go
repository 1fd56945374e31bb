// internal/app/features/provision/confirm.go
package provision

import (
	"sync"
	"time"
)

// ConfirmWindow is how long a destructive command stays armed waiting for its
// confirmation.
const ConfirmWindow = 30 * time.Second

// confirmKeeper holds at most one armed confirmation. Arming replaces any
// previous one. A confirmation resolves by the same user confirming in the
// same channel within the window, or by the window expiring.
type confirmKeeper struct {
	mu       sync.Mutex
	pending  *pendingConfirm
	window   time.Duration
	onExpire func(userID, channelID string)
}

type pendingConfirm struct {
	userID    string
	channelID string
	timer     *time.Timer
}

func newConfirmKeeper(window time.Duration, onExpire func(userID, channelID string)) *confirmKeeper {
	return &confirmKeeper{window: window, onExpire: onExpire}
}

// Arm starts a confirmation window for the user in the channel.
func (k *confirmKeeper) Arm(userID, channelID string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.pending != nil {
		k.pending.timer.Stop()
	}

	p := &pendingConfirm{userID: userID, channelID: channelID}
	p.timer = time.AfterFunc(k.window, func() { k.expire(p) })
	k.pending = p
}

// Confirm resolves the armed confirmation. It returns true only when the
// same user confirms in the same channel before the window runs out.
func (k *confirmKeeper) Confirm(userID, channelID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	p := k.pending
	if p == nil || p.userID != userID || p.channelID != channelID {
		return false
	}
	p.timer.Stop()
	k.pending = nil
	return true
}

func (k *confirmKeeper) expire(p *pendingConfirm) {
	k.mu.Lock()
	// A newer Arm or a successful Confirm may have replaced or cleared the
	// pending entry after this timer fired.
	if k.pending != p {
		k.mu.Unlock()
		return
	}
	k.pending = nil
	k.mu.Unlock()

	if k.onExpire != nil {
		k.onExpire(p.userID, p.channelID)
	}
}
