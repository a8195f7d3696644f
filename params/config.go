package params

// EarthRadius is the spherical earth radius, in meters, used by the local projection.
const EarthRadius = 6378137.0

type Config struct {
	ProjectionConfig
	ReferenceConfig
	WarpConfig
	SinuosityConfig
}

// DefaultConfig returns a fresh copy of the package defaults.
// Callers may mutate the returned value freely.
func DefaultConfig() *Config {
	return &Config{
		ProjectionConfig: *DefaultProjectionConfig,
		ReferenceConfig:  *DefaultReferenceConfig,
		WarpConfig:       *DefaultWarpConfig,
		SinuosityConfig:  *DefaultSinuosityConfig,
	}
}

type ProjectionConfig struct {
	// EarthRadius is the radius of the sphere approximating the earth, in meters.
	EarthRadius float64

	// SharedOrigin projects observed traces relative to the reference axis origin,
	// placing them in the same planar frame as the reference.
	// By default every trace is projected relative to its own first point,
	// which maps to (0, 0).
	SharedOrigin bool
}

var DefaultProjectionConfig = &ProjectionConfig{
	EarthRadius:  EarthRadius,
	SharedOrigin: false,
}

type ReferenceConfig struct {
	// DropRepeatedVertices removes consecutive duplicate reference vertices,
	// which would otherwise yield zero-length (degenerate) axis segments.
	DropRepeatedVertices bool

	// SimplifyThreshold is a Douglas-Peucker threshold, in meters, applied to the
	// projected reference axis. Zero disables simplification.
	SimplifyThreshold float64
}

var DefaultReferenceConfig = &ReferenceConfig{
	DropRepeatedVertices: true,
	SimplifyThreshold:    0,
}

type WarpConfig struct {
	// LegacyXOnlySegLen computes straightened segment lengths from (dx, dx)
	// instead of (dx, dy). This reproduces output of older tooling
	// and should only be used to compare against it.
	LegacyXOnlySegLen bool
}

var DefaultWarpConfig = &WarpConfig{
	LegacyXOnlySegLen: false,
}

type SinuosityConfig struct {
	// WindowLength is the Gaussian taper length, in index units.
	// Index spacing should be roughly uniform along the trace for this to be meaningful.
	WindowLength float64

	// Strict fails the computation when any window has zero net direct length.
	// Otherwise those indices get NaN sinuosity and are recorded as undefined.
	Strict bool
}

var DefaultSinuosityConfig = &SinuosityConfig{
	WindowLength: 50,
	Strict:       false,
}

type InputConfig struct {
	// IDProperty names the feature property (or shapefile attribute field) holding the channel id.
	// When empty, or when a feature lacks it, the feature id is used, then the feature's index.
	IDProperty string

	// Only, when not empty, keeps only traces with these ids.
	Only []string

	// Dedupe drops traces identical (same id and points) to one already read.
	Dedupe bool

	// MaxLineSize bounds a single NDJSON feature line, in bytes.
	MaxLineSize int
}

var DefaultInputConfig = &InputConfig{
	IDProperty:  "",
	Only:        nil,
	Dedupe:      true,
	MaxLineSize: 64 * 1024 * 1024,
}
