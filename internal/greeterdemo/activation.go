package greeterdemo

import "github.com/extrt-io/extrt/pkg/extrt"

// Filter is a second demo contract purely for exercising activation
// ordering (spec §4.8, §8): three auto-activated implementations with
// distinct Order values, registered out of alphabetical order on purpose so
// a passing test demonstrates the selector — not incidental map order —
// drives the result.
type Filter interface {
	Name() string
}

type cFilter struct{}

func (cFilter) Name() string { return "c" }

type aFilter struct{}

func (aFilter) Name() string { return "a" }

type bFilter struct{}

func (bFilter) Name() string { return "b" }

func init() {
	extrt.Declare[Filter](extrt.ContractSpec{DefaultName: "a"})

	extrt.RegisterExtension[Filter]("c", func() Filter { return cFilter{} }, extrt.WithActivate(nil, 2))
	extrt.RegisterExtension[Filter]("a", func() Filter { return aFilter{} }, extrt.WithActivate(nil, 0))
	extrt.RegisterExtension[Filter]("b", func() Filter { return bFilter{} }, extrt.WithActivate(nil, 1))
}
