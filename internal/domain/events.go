package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventOverlayOpened   EventType = "OverlayOpened"
	EventOverlayClosed   EventType = "OverlayClosed"
	EventPOPicked        EventType = "POPicked"
	EventLinePicked      EventType = "LinePicked"
	EventVendorSelected  EventType = "VendorSelected"
	EventConfigLoaded    EventType = "ConfigLoaded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a debounced query is sent to the backend
type SearchStartedEvent struct {
	Query string
	Token uint64
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the current request returns results
type SearchCompletedEvent struct {
	Query   string
	Token   uint64
	POs     int
	Lines   int
	Vendors int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the current request fails
type SearchFailedEvent struct {
	Query string
	Token uint64
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a response arrives for a superseded request
type SearchDiscardedEvent struct {
	Query string
	Token uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// OverlayOpenedEvent is emitted when the search overlay opens
type OverlayOpenedEvent struct{}

func (e OverlayOpenedEvent) Type() EventType { return EventOverlayOpened }

// OverlayClosedEvent is emitted when the search overlay closes
type OverlayClosedEvent struct{}

func (e OverlayClosedEvent) Type() EventType { return EventOverlayClosed }

// POPickedEvent is emitted when a purchase order result is selected
type POPickedEvent struct {
	Pick POPick
}

func (e POPickedEvent) Type() EventType { return EventPOPicked }

// LinePickedEvent is emitted when a line item result is selected
type LinePickedEvent struct {
	Pick LinePick
}

func (e LinePickedEvent) Type() EventType { return EventLinePicked }

// VendorSelectedEvent is emitted when a vendor result is selected.
// Vendors have no navigation target, so nothing acts on it beyond logging.
type VendorSelectedEvent struct {
	VendorID ID
	Name     string
}

func (e VendorSelectedEvent) Type() EventType { return EventVendorSelected }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }
