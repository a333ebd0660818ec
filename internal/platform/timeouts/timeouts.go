// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values prevents drift between boundaries and makes the
// durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the webhook server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the webhook server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 10 * time.Second

// Classify caps one round trip to the language-model API.
const Classify = 30 * time.Second

// MediaFetch caps one photo download from the messaging provider.
const MediaFetch = 30 * time.Second

// Notify caps one reply delivery to the messaging provider.
const Notify = 15 * time.Second
