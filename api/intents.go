package api

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

var intents discordgo.Intent
var intentLock sync.Mutex

// RegisterIntentNeed adds gateway intents a module depends on.
func RegisterIntentNeed(neededIntents ...discordgo.Intent) {
	intentLock.Lock()
	defer intentLock.Unlock()
	for _, i := range neededIntents {
		intents |= i
	}
}

// GetIntent combines every registered intent.
func GetIntent() discordgo.Intent {
	intentLock.Lock()
	defer intentLock.Unlock()
	return intents
}
