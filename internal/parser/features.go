package parser

import (
	"fmt"
	"slices"
	"strings"
)

// Features toggles Luau syntax extensions on top of Lua 5.1.
type Features uint16

const (
	FeatureCompoundAssign Features = 1 << iota
	FeatureContinue
	FeatureIfExpr
	FeatureInterpString
	FeatureTypes
	FeatureFloorDiv
	FeatureAttributes

	AllFeatures = FeatureCompoundAssign | FeatureContinue | FeatureIfExpr |
		FeatureInterpString | FeatureTypes | FeatureFloorDiv | FeatureAttributes
)

type featureName struct {
	name string
	flag Features
}

var featureNames = []featureName{
	{"compound-assign", FeatureCompoundAssign},
	{"continue", FeatureContinue},
	{"if-expr", FeatureIfExpr},
	{"interp-string", FeatureInterpString},
	{"types", FeatureTypes},
	{"floor-div", FeatureFloorDiv},
	{"attributes", FeatureAttributes},
}

func (f Features) Has(flag Features) bool {
	return f&flag == flag
}

func (f Features) String() string {
	if f == AllFeatures {
		return "all"
	}
	var names []string
	for _, fn := range featureNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// FeatureNames lists the names accepted by ParseFeatures.
func FeatureNames() []string {
	out := make([]string, 0, len(featureNames))
	for _, fn := range featureNames {
		out = append(out, fn.name)
	}
	return out
}

// ParseFeatures reads a comma separated list such as "types,continue".
// "all" and "none" are accepted; a leading '-' removes a feature from "all".
func ParseFeatures(spec string) (Features, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "", "all":
		return AllFeatures, nil
	case "none", "lua51":
		return 0, nil
	}

	parts := strings.Split(spec, ",")
	subtractive := slices.ContainsFunc(parts, func(s string) bool { return strings.HasPrefix(strings.TrimSpace(s), "-") })
	var out Features
	if subtractive {
		out = AllFeatures
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		remove := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")
		idx := slices.IndexFunc(featureNames, func(fn featureName) bool { return fn.name == part })
		if idx < 0 {
			return 0, fmt.Errorf("unknown feature %q (known: %s)", part, strings.Join(FeatureNames(), ", "))
		}
		if remove {
			out &^= featureNames[idx].flag
		} else {
			out |= featureNames[idx].flag
		}
	}
	return out, nil
}
