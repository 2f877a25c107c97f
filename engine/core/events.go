package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * width = data.Data.([2]uint32)[0]
	 * height = data.Data.([2]uint32)[1]
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x02

	// Debug view mode changed.
	/* Context usage:
	 * mode = data.Data.(metadata.ViewMode)
	 */
	EVENT_CODE_SET_RENDER_MODE SystemEventCode = 0x03

	// Graphics settings file reloaded from disk.
	/* Context usage:
	 * settings = data.Data.(settings.GraphicsSettings)
	 */
	EVENT_CODE_SETTINGS_RELOADED SystemEventCode = 0x04

	// Camera origin/transform discontinuity. Temporal history must be reset.
	EVENT_CODE_CAMERA_CUT SystemEventCode = 0x05

	// Default render targets need to be regenerated (i.e. after a resize).
	EVENT_CODE_DEFAULT_RENDERTARGET_REFRESH_REQUIRED SystemEventCode = 0x06

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// FnOnEvent is invoked for every fired event of the registered code.
type FnOnEvent func(data EventContext)

type eventSystemState struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]FnOnEvent
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[SystemEventCode][]FnOnEvent),
		}
	})
	return true
}

func EventShutdown() error {
	if eventState != nil {
		eventState.mu.Lock()
		eventState.registered = make(map[SystemEventCode][]FnOnEvent)
		eventState.mu.Unlock()
	}
	return nil
}

// Register to listen for when events are sent with the provided code.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	eventState.mu.Unlock()
	return true
}

// Fire an event to all listeners of the given code.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.RLock()
	listeners := eventState.registered[context.Type]
	eventState.mu.RUnlock()
	if len(listeners) == 0 {
		return false
	}
	for _, fn := range listeners {
		fn(context)
	}
	return true
}
