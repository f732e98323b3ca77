package domain

// KeyPrefix namespaces every Redis key owned by the service.
const KeyPrefix = "bookfinder:"
