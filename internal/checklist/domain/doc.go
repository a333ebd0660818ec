// Package domain defines the core checklist types shared across the service:
// days, item presence, checklist records, interpreted commands, and the
// inbound event boundary contract.
package domain
