package events

import "time"

// Event types
const (
	CredentialAdded   = "credential.added"
	CredentialUpdated = "credential.updated"
	CredentialRemoved = "credential.removed"
	DefaultKeyChanged = "default_key.changed"
)

// Stream names
const (
	CredentialEventsStream = "credential.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Credential events
type CredentialAddedEvent struct {
	PublicKey string `json:"publicKey"`
}

type CredentialUpdatedEvent struct {
	PublicKey string `json:"publicKey"`
}

type CredentialRemovedEvent struct {
	PublicKey string `json:"publicKey"`
}

type DefaultKeyChangedEvent struct {
	PublicKey string `json:"publicKey"`
}
