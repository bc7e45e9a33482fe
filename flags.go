// Package fccbana holds the plotting and command-line helpers shared by
// the banalyze and detsim commands.
package fccbana

import (
	"fmt"
	"strconv"
)

// FloatArrayFlags is a repeatable float flag. The first value given on
// the command line replaces the defaults.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

// IntArrayFlags is the integer counterpart of FloatArrayFlags, used for
// lists of PDG codes.
type IntArrayFlags struct {
	Array   []int
	beenSet bool
}

func (f *IntArrayFlags) Set(valueStr string) error {
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *IntArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}
