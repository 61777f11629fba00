package main

import "strconv"

// stringList collects a repeatable string flag (`--symbol BUI --symbol BUS`),
// mirroring argparse's `action="append"` in original_source/btnl_client/__main__.py.
type stringList []string

func (s *stringList) String() string { return "" }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// int64List collects a repeatable integer flag (`--pid 1 --pid 2`).
type int64List []int64

func (s *int64List) String() string { return "" }

func (s *int64List) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*s = append(*s, n)
	return nil
}

// optionalBool distinguishes "flag not passed" from "flag passed as false",
// since --active in the original CLI is a tri-state (unset/true).
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string { return "" }

func (b *optionalBool) Set(v string) error {
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	b.set = true
	b.value = parsed
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

func (b *optionalBool) Ptr() *bool {
	if !b.set {
		return nil
	}
	return &b.value
}
