package commands

import (
	"strconv"

	"github.com/spf13/pflag"

	"github.com/dotcommander/tick/internal/actions"
)

// doneValue is a pflag.Value for --done. It accepts only true/false
// (case-insensitive) and remembers whether it was set.
type doneValue struct {
	value bool
	set   bool
}

var _ pflag.Value = (*doneValue)(nil)

func (d *doneValue) String() string {
	if !d.set {
		return ""
	}
	return strconv.FormatBool(d.value)
}

func (d *doneValue) Set(s string) error {
	v, err := actions.ParseDone(s)
	if err != nil {
		return err
	}
	d.value = v
	d.set = true
	return nil
}

func (d *doneValue) Type() string { return "true|false" }
