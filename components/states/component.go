package states

import "net/http"

// Component bundles the state list, its handler configuration and routing
// helpers so hosts can wire selects, validation and the endpoint from one
// value.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// States returns the configured list, or the embedded one.
func (c *Component) States() ([]State, error) {
	if c == nil || c.opts.States == nil {
		return DefaultStates()
	}
	return append([]State{}, c.opts.States...), nil
}

// Codes returns the accepted state codes.
func (c *Component) Codes() ([]string, error) {
	states, err := c.States()
	if err != nil {
		return nil, err
	}
	return Codes(states), nil
}

// Handler returns the net/http handler for state queries.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
