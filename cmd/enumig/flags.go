package main

import (
	"github.com/spf13/pflag"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/policy"
)

// policyFlag is a pflag.Value that parses a removal policy name as it is
// set, so bad --on-remove arguments fail at flag parsing instead of deep in
// the command.
type policyFlag struct {
	kind policy.Kind
	set  bool
}

var _ pflag.Value = (*policyFlag)(nil)

func (f *policyFlag) String() string {
	if !f.set {
		return ""
	}
	return f.kind.String()
}

func (f *policyFlag) Set(s string) error {
	kind, ok := policy.ParseKind(s)
	if !ok {
		return enerr.New(enerr.ErrPolicyInvalid, "unknown removal policy").
			With("policy", s).
			With("supported", "protect, cascade, set_null, set_default, set_value")
	}
	f.kind = kind
	f.set = true
	return nil
}

func (f *policyFlag) Type() string { return "policy" }

// Policy materializes the flag into a removal policy, nil when the flag was
// never set.
func (f *policyFlag) Policy(value string) *policy.RemovalPolicy {
	if !f.set {
		return nil
	}
	return &policy.RemovalPolicy{Kind: f.kind, Value: value}
}
