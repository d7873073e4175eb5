package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchIssued    EventType = "SearchIssued"
	EventSearchApplied   EventType = "SearchApplied"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventQueryCleared    EventType = "QueryCleared"
	EventCardsImported   EventType = "CardsImported"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchIssuedEvent is emitted when a lookup is sent to the gateway
type SearchIssuedEvent struct {
	Sequence uint64
	Query    string
	Filters  FilterSet
}

func (e SearchIssuedEvent) Type() EventType { return EventSearchIssued }

// SearchAppliedEvent is emitted when a response becomes the visible result set
type SearchAppliedEvent struct {
	Sequence uint64
	Query    string
	Hits     int
}

func (e SearchAppliedEvent) Type() EventType { return EventSearchApplied }

// SearchFailedEvent is emitted when the newest lookup failed
type SearchFailedEvent struct {
	Sequence uint64
	Query    string
	Err      error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a response arrives for a superseded request
type SearchDiscardedEvent struct {
	Sequence uint64
	Newest   uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// QueryClearedEvent is emitted when the query becomes empty
type QueryClearedEvent struct{}

func (e QueryClearedEvent) Type() EventType { return EventQueryCleared }

// CardsImportedEvent is emitted after a batch of cards was stored
type CardsImportedEvent struct {
	Names []string
}

func (e CardsImportedEvent) Type() EventType { return EventCardsImported }
