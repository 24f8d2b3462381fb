package debugpanel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knobs struct {
	Count  int
	Radius float64
	Color  string
}

func newKnobPanel(k *knobs) *Panel {
	p := New()
	p.AddInt("count", &k.Count).Min(0).Max(1024).Step(128)
	p.AddFloat("radius", &k.Radius).Min(1).Max(10).Step(0.5)
	p.AddColor("color", &k.Color)
	return p
}

func TestController_NumberClampAndSnap(t *testing.T) {
	tests := []struct {
		name    string
		control string
		raw     string
		want    knobs
	}{
		{"snaps count to step", "count", "300", knobs{Count: 256, Radius: 2.5, Color: "#b9b5ff"}},
		{"clamps count high", "count", "5000", knobs{Count: 1024, Radius: 2.5, Color: "#b9b5ff"}},
		{"clamps count low", "count", "-3", knobs{Count: 0, Radius: 2.5, Color: "#b9b5ff"}},
		{"snaps radius", "radius", "3.3", knobs{Count: 128, Radius: 3.5, Color: "#b9b5ff"}},
		{"clamps radius", "radius", "0.2", knobs{Count: 128, Radius: 1, Color: "#b9b5ff"}},
		{"normalises colour", "color", "#FFF", knobs{Count: 128, Radius: 2.5, Color: "#ffffff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := knobs{Count: 128, Radius: 2.5, Color: "#b9b5ff"}
			p := newKnobPanel(&k)

			ctl, err := p.Controller(tt.control)
			require.NoError(t, err)
			require.NoError(t, ctl.Input(tt.raw))

			if diff := cmp.Diff(tt.want, k); diff != "" {
				t.Errorf("knobs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestController_InvalidInput(t *testing.T) {
	k := knobs{Count: 128, Radius: 2.5, Color: "#b9b5ff"}
	p := newKnobPanel(&k)

	count, _ := p.Controller("count")
	assert.ErrorIs(t, count.Input("lots"), ErrInvalidValue)
	assert.ErrorIs(t, count.Input("NaN"), ErrInvalidValue)
	assert.ErrorIs(t, count.Validate("Inf"), ErrInvalidValue)

	color, _ := p.Controller("color")
	assert.ErrorIs(t, color.Input("blue"), ErrInvalidValue)

	assert.Equal(t, 128, k.Count)
	assert.Equal(t, "#b9b5ff", k.Color)
	assert.False(t, count.Pending())
}

func TestController_CommitOnFinish(t *testing.T) {
	k := knobs{Count: 128, Radius: 2.5, Color: "#b9b5ff"}
	p := newKnobPanel(&k)

	var changes int
	var commits []knobs
	ctl, err := p.Controller("count")
	require.NoError(t, err)
	ctl.OnChange(func() { changes++ }).
		OnFinishChange(func() { commits = append(commits, k) })

	for _, raw := range []string{"200", "300", "400", "512"} {
		require.NoError(t, ctl.Input(raw))
	}
	assert.Equal(t, 4, changes)
	assert.Empty(t, commits, "intermediate edits must not commit")
	assert.True(t, ctl.Pending())

	assert.True(t, ctl.Finish())
	assert.False(t, ctl.Finish(), "nothing left to commit")

	want := []knobs{{Count: 512, Radius: 2.5, Color: "#b9b5ff"}}
	if diff := cmp.Diff(want, commits); diff != "" {
		t.Errorf("commits mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_Lookup(t *testing.T) {
	p := newKnobPanel(&knobs{})

	_, err := p.Controller("nope")
	assert.ErrorIs(t, err, ErrUnknownControl)

	assert.Equal(t, []string{"color", "count", "radius"}, p.Names())

	ctls := p.Controllers()
	require.Len(t, ctls, 3)
	assert.Equal(t, "count", ctls[0].Name())
	assert.Equal(t, KindColor, ctls[2].Kind())
}

func TestController_Value(t *testing.T) {
	k := knobs{Count: 256, Radius: 3.5, Color: "#6b6982"}
	p := newKnobPanel(&k)

	for name, want := range map[string]string{"count": "256", "radius": "3.5", "color": "#6b6982"} {
		ctl, err := p.Controller(name)
		require.NoError(t, err)
		assert.Equal(t, want, ctl.Value(), name)
	}
}
