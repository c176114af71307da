package constants

// TicksPerSecond is the Jellyfin ticks-per-second factor (100ns ticks).
const TicksPerSecond = 10_000_000

// MaxImageFetches bounds concurrent poster downloads.
const MaxImageFetches = 6
