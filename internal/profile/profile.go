// Package profile picks the remap pairs for the machine the daemon runs on
// and feeds them to the aggregator at startup.
package profile

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/remap"
)

// Pair is one mapping in control-protocol text, e.g. BTN_TL2 to ABS_Z@256.
type Pair struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// DMI matches PCs and x86 handhelds by their firmware strings. An empty
// field matches anything. With RelaxedName or RelaxedVendor set, the name
// or vendor fields match when either string contains the other.
type DMI struct {
	DisplayName   string `mapstructure:"display_name" yaml:"display_name"`
	BoardVendor   string `mapstructure:"board_vendor" yaml:"board_vendor"`
	BoardName     string `mapstructure:"board_name" yaml:"board_name"`
	ProductVendor string `mapstructure:"product_vendor" yaml:"product_vendor"`
	ProductName   string `mapstructure:"product_name" yaml:"product_name"`
	RelaxedName   bool   `mapstructure:"relaxed_name" yaml:"relaxed_name"`
	RelaxedVendor bool   `mapstructure:"relaxed_vendor" yaml:"relaxed_vendor"`
	Remap         []Pair `mapstructure:"remap" yaml:"remap"`
}

// DT matches ARM boards by one device-tree compatible string.
type DT struct {
	DisplayName string `mapstructure:"display_name" yaml:"display_name"`
	Compatible  string `mapstructure:"compatible" yaml:"compatible"`
	Remap       []Pair `mapstructure:"remap" yaml:"remap"`
}

type Set struct {
	Global []Pair
	DMI    []DMI
	DT     []DT
}

func matchStr(template, actual string, relaxed bool) bool {
	if template == "" {
		return true
	}
	if relaxed {
		return strings.Contains(template, actual) || strings.Contains(actual, template)
	}
	return template == actual
}

func (d DMI) Matches(id Identity) bool {
	return matchStr(d.ProductName, id.ProductName, d.RelaxedName) &&
		matchStr(d.ProductVendor, id.ProductVendor, d.RelaxedVendor) &&
		matchStr(d.BoardName, id.BoardName, d.RelaxedName) &&
		matchStr(d.BoardVendor, id.BoardVendor, d.RelaxedVendor)
}

func (d DT) Matches(id Identity) bool {
	for _, c := range id.Compatible {
		if c == d.Compatible {
			return true
		}
	}
	return false
}

// Match returns the first profile that fits id. DMI profiles are only
// tried on hosts that expose DMI, device-tree ones on hosts with a
// compatible list.
func (s Set) Match(id Identity) (name string, pairs []Pair, ok bool) {
	if id.HasDMI {
		for _, d := range s.DMI {
			if d.Matches(id) {
				log.Infof("Found device match by DMI: %s", d.DisplayName)
				return d.DisplayName, d.Remap, true
			}
		}
	}
	if len(id.Compatible) > 0 {
		for _, d := range s.DT {
			if d.Matches(id) {
				log.Infof("Found device match by DT compatible: %s", d.DisplayName)
				return d.DisplayName, d.Remap, true
			}
		}
	}
	return "", nil, false
}

// Requests parses the global pairs followed by the matched profile's pairs.
// Pairs that do not parse are logged and skipped.
func (s Set) Requests(id Identity) []dispatch.MapRequest {
	pairs := append([]Pair(nil), s.Global...)
	if _, matched, ok := s.Match(id); ok {
		pairs = append(pairs, matched...)
	} else {
		log.Info("No device profile matched this machine")
	}

	reqs := make([]dispatch.MapRequest, 0, len(pairs))
	for _, p := range pairs {
		from, err := remap.Parse(p.From)
		if err != nil {
			log.Warnf("Skipping remap %q -> %q: source: %v", p.From, p.To, err)
			continue
		}
		to, err := remap.Parse(p.To)
		if err != nil {
			log.Warnf("Skipping remap %q -> %q: target: %v", p.From, p.To, err)
			continue
		}
		reqs = append(reqs, dispatch.MapRequest{From: from, To: to})
	}
	return reqs
}

// Apply sends the startup requests to the aggregator.
func (s Set) Apply(ctx context.Context, id Identity, events chan<- dispatch.Event) error {
	for _, req := range s.Requests(id) {
		log.WithFields(log.Fields{"from": req.From.String(), "to": req.To.String()}).Info("Applying remap")
		select {
		case events <- req:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
