package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMode_NoPredicate(t *testing.T) {
	opts := &Options{FSType: "fsx"}

	for _, mode := range []Mode{ModePass, ModeXFail, ModeSkip, ModeAll} {
		t.Run(mode.String(), func(t *testing.T) {
			d := Descriptor{Mode: mode, Func: func(*Scratch) error { return nil }}
			assert.Equal(t, mode, ResolveMode(&d, opts))
		})
	}
}

func TestResolveMode_PredicateMatches(t *testing.T) {
	d := Descriptor{
		Mode: ModeXFail,
		Func: func(*Scratch) error { return nil },
		Predicate: &Predicate{
			Func:          func(opts *Options, value string) bool { return true },
			AlternateMode: ModePass,
		},
	}
	assert.Equal(t, ModePass, ResolveMode(&d, &Options{}))
}

func TestResolveMode_PredicateDoesNotMatch(t *testing.T) {
	d := Descriptor{
		Mode: ModeXFail,
		Func: func(*Scratch) error { return nil },
		Predicate: &Predicate{
			Func:          func(opts *Options, value string) bool { return false },
			AlternateMode: ModePass,
		},
	}
	assert.Equal(t, ModeXFail, ResolveMode(&d, &Options{}))
}

func TestResolveMode_PredicateSeesOptionsAndValue(t *testing.T) {
	var gotValue string
	var gotFSType string

	d := Descriptor{
		Mode: ModePass,
		Func: func(*Scratch) error { return nil },
		Predicate: &Predicate{
			Func: func(opts *Options, value string) bool {
				gotValue = value
				gotFSType = opts.FSType
				return opts.FSType == value
			},
			Value:         "memblob",
			AlternateMode: ModeSkip,
		},
	}

	mode := ResolveMode(&d, &Options{FSType: "memblob"})
	assert.Equal(t, ModeSkip, mode)
	assert.Equal(t, "memblob", gotValue)
	assert.Equal(t, "memblob", gotFSType)
}

func TestFSTypePredicates(t *testing.T) {
	opts := &Options{FSType: "fsx"}

	is := FSTypeIs("fsx", ModePass)
	assert.True(t, is.Func(opts, is.Value))

	isNot := FSTypeIs("memblob", ModePass)
	assert.False(t, isNot.Func(opts, isNot.Value))

	not := FSTypeNot("memblob", ModeSkip)
	assert.True(t, not.Func(opts, not.Value))

	notSame := FSTypeNot("fsx", ModeSkip)
	assert.False(t, notSame.Func(opts, notSame.Value))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"pass", ModePass, true},
		{"PASS", ModePass, true},
		{"xfail", ModeXFail, true},
		{"skip", ModeSkip, true},
		{"all", ModeAll, true},
		{"", ModeAll, true},
		{"bogus", ModeAll, false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}
