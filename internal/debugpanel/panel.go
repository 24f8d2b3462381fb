// Package debugpanel binds named controls to application values.
//
// Controls distinguish intermediate edits from committed ones: Input updates
// the bound value and fires OnChange handlers, while Finish fires
// OnFinishChange handlers once for the edits made since the last commit.
// Expensive reactions, such as regenerating the point cloud, belong in
// OnFinishChange.
//
// A Panel and its controls are not safe for concurrent use; mutate them from
// the application loop.
package debugpanel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/banshee-data/particles/internal/scene"
)

var (
	// ErrUnknownControl is returned when a control name is not registered.
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidValue is returned when input cannot be parsed for a control.
	ErrInvalidValue = errors.New("invalid value")
)

// Kind distinguishes numeric sliders from colour pickers.
type Kind int

const (
	KindNumber Kind = 0
	KindColor  Kind = 1
)

// Panel is a named set of controls.
type Panel struct {
	controls map[string]*Controller
	order    []string
}

// New creates an empty panel.
func New() *Panel {
	return &Panel{controls: make(map[string]*Controller)}
}

// AddInt binds an integer slider to v.
func (p *Panel) AddInt(name string, v *int) *Controller {
	c := &Controller{
		name:    name,
		kind:    KindNumber,
		integer: true,
		get:     func() float64 { return float64(*v) },
		set:     func(f float64) { *v = int(math.Round(f)) },
	}
	return p.register(c)
}

// AddFloat binds a float slider to v.
func (p *Panel) AddFloat(name string, v *float64) *Controller {
	c := &Controller{
		name: name,
		kind: KindNumber,
		get:  func() float64 { return *v },
		set:  func(f float64) { *v = f },
	}
	return p.register(c)
}

// AddColor binds a colour picker to v, which holds "#rrggbb".
func (p *Panel) AddColor(name string, v *string) *Controller {
	c := &Controller{
		name:     name,
		kind:     KindColor,
		getColor: func() string { return *v },
		setColor: func(s string) { *v = s },
	}
	return p.register(c)
}

func (p *Panel) register(c *Controller) *Controller {
	if _, exists := p.controls[c.name]; !exists {
		p.order = append(p.order, c.name)
	}
	p.controls[c.name] = c
	return c
}

// Controller returns the control registered under name.
func (p *Panel) Controller(name string) (*Controller, error) {
	c, ok := p.controls[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownControl, name)
	}
	return c, nil
}

// Controllers returns all controls in registration order.
func (p *Panel) Controllers() []*Controller {
	out := make([]*Controller, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.controls[name])
	}
	return out
}

// Names returns the registered control names, sorted.
func (p *Panel) Names() []string {
	names := append([]string(nil), p.order...)
	sort.Strings(names)
	return names
}

// Controller is one bound value.
type Controller struct {
	name    string
	kind    Kind
	integer bool

	get func() float64
	set func(float64)

	getColor func() string
	setColor func(string)

	min, max *float64
	step     float64

	onChange       []func()
	onFinishChange []func()
	dirty          bool
}

// Name returns the control's name.
func (c *Controller) Name() string { return c.name }

// Kind reports whether the control is a slider or a colour picker.
func (c *Controller) Kind() Kind { return c.kind }

// Min sets the slider's lower bound.
func (c *Controller) Min(v float64) *Controller {
	c.min = &v
	return c
}

// Max sets the slider's upper bound.
func (c *Controller) Max(v float64) *Controller {
	c.max = &v
	return c
}

// Step sets the slider's increment. Values snap to the nearest multiple.
func (c *Controller) Step(v float64) *Controller {
	c.step = v
	return c
}

// OnChange registers fn to run after every Input.
func (c *Controller) OnChange(fn func()) *Controller {
	c.onChange = append(c.onChange, fn)
	return c
}

// OnFinishChange registers fn to run when an edit is committed.
func (c *Controller) OnFinishChange(fn func()) *Controller {
	c.onFinishChange = append(c.onFinishChange, fn)
	return c
}

// Value formats the current bound value.
func (c *Controller) Value() string {
	if c.kind == KindColor {
		return c.getColor()
	}
	if c.integer {
		return strconv.Itoa(int(c.get()))
	}
	return strconv.FormatFloat(c.get(), 'g', -1, 64)
}

// Validate checks that raw would be accepted by Input without applying it.
func (c *Controller) Validate(raw string) error {
	if c.kind == KindColor {
		_, err := c.parseColor(raw)
		return err
	}
	_, err := c.parseNumber(raw)
	return err
}

// Input applies an intermediate edit: the bound value changes and OnChange
// handlers run, but nothing is committed until Finish.
func (c *Controller) Input(raw string) error {
	if c.kind == KindColor {
		hex, err := c.parseColor(raw)
		if err != nil {
			return err
		}
		c.setColor(hex)
	} else {
		v, err := c.parseNumber(raw)
		if err != nil {
			return err
		}
		c.set(v)
	}
	c.dirty = true
	for _, fn := range c.onChange {
		fn()
	}
	return nil
}

// Finish commits the edits made since the last commit, running
// OnFinishChange handlers. It reports false when there was nothing to commit.
func (c *Controller) Finish() bool {
	if !c.dirty {
		return false
	}
	c.dirty = false
	for _, fn := range c.onFinishChange {
		fn()
	}
	return true
}

// Pending reports whether there are uncommitted edits.
func (c *Controller) Pending() bool { return c.dirty }

func (c *Controller) parseColor(raw string) (string, error) {
	col, err := scene.ParseColor(raw)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrInvalidValue, c.name, err)
	}
	return col.Hex(), nil
}

// parseNumber clamps to the bounds and then snaps to the step.
func (c *Controller) parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w for %s: %q is not a finite number", ErrInvalidValue, c.name, raw)
	}
	if c.min != nil && v < *c.min {
		v = *c.min
	} else if c.max != nil && v > *c.max {
		v = *c.max
	}
	if c.step > 0 && math.Mod(v, c.step) != 0 {
		v = math.Round(v/c.step) * c.step
	}
	if c.integer {
		v = math.Round(v)
	}
	return v, nil
}
