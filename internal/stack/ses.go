package stack

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ses"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
)

type RuleSet struct {
	RuleSet *ses.ReceiptRuleSet
	Active  *ses.ActiveReceiptRuleSet
	Rules   []*ses.ReceiptRule
}

// configureRuleSet registers the rule set and its rules in order. SES checks that it may
// write to the bucket and invoke the functions when a rule is created, so every rule
// depends on grants.
func configureRuleSet(ctx *pulumi.Context, g *pipeline.Graph, storage *Storage, functions map[string]*Function, grants []pulumi.Resource, opts ...pulumi.ResourceOption) (*RuleSet, error) {
	name := resourceName(g.Identifier, g.RuleSet.LogicalName)

	rs, err := ses.NewReceiptRuleSet(ctx, name, &ses.ReceiptRuleSetArgs{
		RuleSetName: pulumi.String(g.RuleSet.Name),
	}, opts...)
	if err != nil {
		return nil, err
	}
	out := &RuleSet{RuleSet: rs}

	if g.RuleSet.Active {
		out.Active, err = ses.NewActiveReceiptRuleSet(ctx, name+"-active", &ses.ActiveReceiptRuleSetArgs{
			RuleSetName: rs.RuleSetName,
		}, opts...)
		if err != nil {
			return nil, err
		}
	}

	var prev *ses.ReceiptRule
	for _, r := range g.RuleSet.Rules {
		args := &ses.ReceiptRuleArgs{
			Name:        pulumi.String(r.Name),
			RuleSetName: rs.RuleSetName,
			Enabled:     pulumi.Bool(r.Enabled),
			ScanEnabled: pulumi.Bool(r.ScanEnabled),
			TlsPolicy:   pulumi.String(string(r.TLSPolicy)),
		}
		if len(r.Recipients) > 0 {
			args.Recipients = pulumi.ToStringArray(r.Recipients)
		}
		if prev != nil {
			args.After = prev.Name
		}
		var s3Actions ses.ReceiptRuleS3ActionArray
		var lambdaActions ses.ReceiptRuleLambdaActionArray
		for i, a := range r.Actions {
			position := pulumi.Int(i + 1)
			switch a := a.(type) {
			case pipeline.S3Action:
				s3a := &ses.ReceiptRuleS3ActionArgs{
					BucketName: storage.Bucket.Bucket,
					Position:   position,
				}
				if a.ObjectKeyPrefix != "" {
					s3a.ObjectKeyPrefix = pulumi.String(a.ObjectKeyPrefix)
				}
				s3Actions = append(s3Actions, s3a)
			case pipeline.LambdaAction:
				fn, ok := functions[a.Function.FunctionName]
				if !ok {
					return nil, fmt.Errorf("rule %s: function %s is not deployed", r.Name, a.Function.FunctionName)
				}
				lambdaActions = append(lambdaActions, &ses.ReceiptRuleLambdaActionArgs{
					FunctionArn:    fn.Function.Arn,
					InvocationType: pulumi.String(string(a.InvocationType)),
					Position:       position,
				})
			default:
				return nil, fmt.Errorf("rule %s: unsupported action %s", r.Name, a)
			}
		}
		if len(s3Actions) > 0 {
			args.S3Actions = s3Actions
		}
		if len(lambdaActions) > 0 {
			args.LambdaActions = lambdaActions
		}

		deps := append([]pulumi.Resource{}, grants...)
		if prev != nil {
			deps = append(deps, prev)
		}
		rule, err := ses.NewReceiptRule(ctx, resourceName(g.Identifier, r.LogicalName), args,
			with(opts, pulumi.DependsOn(deps))...)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		out.Rules = append(out.Rules, rule)
		prev = rule
	}
	return out, nil
}
