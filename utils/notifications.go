package utils

import "sync"

// In-memory announcement suppression (resets on restart)
var (
	lastTierAnnounced = make(map[int64]int)
	notifMutex        sync.Mutex
)

// ShouldAnnounceTierUp reports whether moving from scoreBefore to scoreAfter
// crosses into a tier that has not been announced to userID yet
func ShouldAnnounceTierUp(userID, scoreBefore, scoreAfter int64) (Tier, bool) {
	next := TierIndex(scoreAfter)
	if next <= TierIndex(scoreBefore) {
		return Tier{}, false
	}

	notifMutex.Lock()
	defer notifMutex.Unlock()
	if prev, ok := lastTierAnnounced[userID]; ok && next <= prev {
		return Tier{}, false
	}
	lastTierAnnounced[userID] = next
	return Tiers[next], true
}

// ResetTierAnnouncements forgets what was announced to userID
func ResetTierAnnouncements(userID int64) {
	notifMutex.Lock()
	delete(lastTierAnnounced, userID)
	notifMutex.Unlock()
}
