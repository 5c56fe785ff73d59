package arena

// config holds the resolved construction parameters for New. It is
// never exported directly — callers only ever see it through Option
// functions.
type config struct {
	backend  Backend
	pageSize int
}

// Option configures Arena construction.
type Option func(*config)

// WithBackend overrides the region-acquisition Backend. The default is
// MmapBackend.
func WithBackend(b Backend) Option {
	return func(c *config) { c.backend = b }
}

// withPageSize overrides the page-rounding unit. PageSize (4096) is the
// only page size the allocator's contract recognizes — Arena.Length is
// specified to always be a multiple of it. This is unexported (rather
// than a public Option) precisely so no production caller can construct
// an Arena whose length violates that contract; this package's own
// tests use it to build small arenas without acquiring a full
// 4096-byte region.
func withPageSize(n int) Option {
	return func(c *config) { c.pageSize = n }
}

func defaultConfig() *config {
	return &config{
		backend:  MmapBackend{},
		pageSize: PageSize,
	}
}
