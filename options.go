package mandel

// Option configures an Explorer during creation.
//
// Example:
//
//	// Default CPU generation, no overlay:
//	ex, err := mandel.New(mandel.WithPresenter(p))
//
//	// Custom generator (dependency injection):
//	ex, err := mandel.New(mandel.WithPresenter(p), mandel.WithGenerator(g))
type Option func(*config)

// config holds optional configuration for Explorer creation.
type config struct {
	presenter Presenter
	generator Generator
	palette   *Palette
	overlay   Overlay
	width     int
	height    int
}

// defaultConfig returns the default explorer configuration.
func defaultConfig() config {
	return config{
		width:  Width,
		height: Height,
	}
}

// WithPresenter sets the presentation collaborator. Required.
func WithPresenter(p Presenter) Option {
	return func(c *config) {
		c.presenter = p
	}
}

// WithGenerator sets a custom generator for the explorer's coordinator,
// bypassing the package registry. Use this for dependency injection in
// tests or embedding.
func WithGenerator(g Generator) Option {
	return func(c *config) {
		c.generator = g
	}
}

// WithPalette sets a custom palette. The palette must not be mutated
// after the explorer is created.
func WithPalette(p *Palette) Option {
	return func(c *config) {
		c.palette = p
	}
}

// WithOverlay sets an overlay drawn on top of every presented frame, e.g.
// hud.New().
func WithOverlay(o Overlay) Option {
	return func(c *config) {
		c.overlay = o
	}
}

// WithSize overrides the raster dimensions. Intended for embedding and
// tests; the interactive defaults are Width×Height.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}
