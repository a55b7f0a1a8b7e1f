// Package stack registers a pipeline.Graph with the Pulumi engine.
package stack

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/sesv2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
)

// Options tune resources that sit next to the graph rather than in it.
type Options struct {
	// RetentionDays expires stored mail after this many days. Zero keeps mail forever.
	RetentionDays int
	// EmailIdentity is the receiving domain to register with SES. Empty skips it.
	EmailIdentity string
}

// Pipeline holds the registered resources, keyed the way the program exports them.
type Pipeline struct {
	Storage   *Storage
	Functions map[string]*Function
	RuleSet   *RuleSet
	Identity  *sesv2.EmailIdentity
}

// Function returns the deployed handler that receives mail notifications.
func (p *Pipeline) Function() *Function {
	return p.Functions[pipeline.FunctionName]
}

// Deploy registers every resource of g. opts are applied to each resource, typically
// pulumi.Provider(prov).
func Deploy(ctx *pulumi.Context, g *pipeline.Graph, o Options, opts ...pulumi.ResourceOption) (*Pipeline, error) {
	storage, err := configureStorage(ctx, g, o, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	functions := map[string]*Function{}
	var grants []pulumi.Resource
	for _, c := range g.Functions() {
		fn, err := configureFunction(ctx, g.Identifier, c, opts...)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", c.FunctionName, err)
		}
		functions[c.FunctionName] = fn
		for _, perm := range fn.Permissions {
			grants = append(grants, perm)
		}
	}

	grants = append(grants, storage.Policy)
	ruleSet, err := configureRuleSet(ctx, g, storage, functions, grants, opts...)
	if err != nil {
		return nil, fmt.Errorf("rule set: %w", err)
	}

	p := &Pipeline{Storage: storage, Functions: functions, RuleSet: ruleSet}

	if o.EmailIdentity != "" {
		p.Identity, err = sesv2.NewEmailIdentity(ctx, resourceName(g.Identifier, "ses-identity"), &sesv2.EmailIdentityArgs{
			EmailIdentity: pulumi.String(o.EmailIdentity),
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("email identity: %w", err)
		}
	}
	return p, nil
}

func resourceName(identifier, logical string) string {
	if identifier == "" {
		return logical
	}
	return identifier + "-" + logical
}

// with returns opts plus extra without touching the caller's backing array.
func with(opts []pulumi.ResourceOption, extra ...pulumi.ResourceOption) []pulumi.ResourceOption {
	out := make([]pulumi.ResourceOption, 0, len(opts)+len(extra))
	out = append(out, opts...)
	return append(out, extra...)
}
