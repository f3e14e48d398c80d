package event

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

// RegisterType maps a wire name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the wire name for an EventType
func GetEventName(et EventType) string {
	return typeToName[et]
}

func init() {
	RegisterType("invalidate", EventInvalidate)
	RegisterType("sound", EventSound)
	RegisterType("effect", EventEffect)
	RegisterType("debris", EventDebris)
	RegisterType("news", EventNews)
	RegisterType("test_finished", EventTestFinished)
}
