package sink

// DefaultUnit is the size of one grid unit in SVG pixels and DXF drawing
// units.
const DefaultUnit = 100.0

// Option configures a renderer.
type Option func(*options)

type options struct {
	unit       float64
	labels     bool
	palette    Palette
	containers bool
}

// WithUnit sets the size of one grid unit. Values <= 0 are ignored.
func WithUnit(u float64) Option {
	return func(o *options) {
		if u > 0 {
			o.unit = u
		}
	}
}

// WithLabels toggles component labels.
func WithLabels(on bool) Option { return func(o *options) { o.labels = on } }

// WithPalette sets the plenum colours.
func WithPalette(p Palette) Option { return func(o *options) { o.palette = p } }

// WithContainers outlines branches, groups and sides.
func WithContainers() Option { return func(o *options) { o.containers = true } }

func newOptions(opts ...Option) options {
	o := options{unit: DefaultUnit, labels: true, palette: DefaultPalette()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
