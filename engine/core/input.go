package core

import "sync"

// Key code definitions
type KeyCode uint16

const (
	KEY_ESCAPE KeyCode = 0x1B
	KEY_SPACE  KeyCode = 0x20
	KEY_LEFT   KeyCode = 0x25
	KEY_UP     KeyCode = 0x26
	KEY_RIGHT  KeyCode = 0x27
	KEY_DOWN   KeyCode = 0x28
	KEY_A      KeyCode = 0x41
	KEY_D      KeyCode = 0x44
	KEY_E      KeyCode = 0x45
	KEY_Q      KeyCode = 0x51
	KEY_S      KeyCode = 0x53
	KEY_W      KeyCode = 0x57

	KEYS_MAX_KEYS KeyCode = 0x100
)

type keyboardState struct {
	keys [KEYS_MAX_KEYS]bool
}

type inputState struct {
	keyboardCurrent  keyboardState
	keyboardPrevious keyboardState
}

var onceInput sync.Once
var inputInitialized bool = false
var inState *inputState = nil

func InputInitialize() {
	onceInput.Do(func() {
		inState = &inputState{}
	})
	inputInitialized = true
}

func InputShutdown() {
	inputInitialized = false
}

// InputUpdate rolls the current keyboard state into the previous one.
// Call once per frame, after the platform has pumped its messages.
func InputUpdate(_ float64) {
	if !inputInitialized {
		return
	}
	inState.keyboardPrevious = inState.keyboardCurrent
}

func InputProcessKey(key KeyCode, pressed bool) {
	if !inputInitialized || key >= KEYS_MAX_KEYS {
		return
	}
	if inState.keyboardCurrent.keys[key] == pressed {
		return
	}
	inState.keyboardCurrent.keys[key] = pressed

	context := EventContext{}
	context.Data.U16[0] = uint16(key)
	if pressed {
		EventFire(EVENT_CODE_KEY_PRESSED, nil, context)
	} else {
		EventFire(EVENT_CODE_KEY_RELEASED, nil, context)
	}
}

func InputIsKeyDown(key KeyCode) bool {
	if !inputInitialized || key >= KEYS_MAX_KEYS {
		return false
	}
	return inState.keyboardCurrent.keys[key]
}

func InputIsKeyUp(key KeyCode) bool {
	if !inputInitialized || key >= KEYS_MAX_KEYS {
		return true
	}
	return !inState.keyboardCurrent.keys[key]
}

func InputWasKeyDown(key KeyCode) bool {
	if !inputInitialized || key >= KEYS_MAX_KEYS {
		return false
	}
	return inState.keyboardPrevious.keys[key]
}
