package types

// Version is the canonical project version.
// The CLI and all transport packages share this version; there is no
// per-component versioning.
const Version = "0.3.0"
