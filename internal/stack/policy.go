package stack

import (
	"sort"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
)

// policyJSON renders doc through the provider's policy document data source.
func policyJSON(ctx *pulumi.Context, doc pipeline.PolicyDocument) (string, error) {
	args := &iam.GetPolicyDocumentArgs{
		Statements: make([]iam.GetPolicyDocumentStatement, 0, len(doc.Statements)),
	}
	if doc.Version != "" {
		args.Version = pulumi.StringRef(doc.Version)
	}
	for _, s := range doc.Statements {
		args.Statements = append(args.Statements, policyStatement(s))
	}
	res, err := iam.GetPolicyDocument(ctx, args, nil)
	if err != nil {
		return "", err
	}
	return res.Json, nil
}

func policyStatement(s pipeline.PolicyStatement) iam.GetPolicyDocumentStatement {
	out := iam.GetPolicyDocumentStatement{
		Effect:    pulumi.StringRef(string(s.Effect)),
		Actions:   s.Actions,
		Resources: s.Resources,
	}
	if s.Sid != "" {
		out.Sid = pulumi.StringRef(s.Sid)
	}
	if len(s.Principals) > 0 {
		services := make([]string, 0, len(s.Principals))
		for _, p := range s.Principals {
			services = append(services, p.Service)
		}
		sort.Strings(services)
		out.Principals = []iam.GetPolicyDocumentStatementPrincipal{{
			Type:        "Service",
			Identifiers: services,
		}}
	}

	// Operators and keys are sorted so the rendered document is stable across runs.
	tests := make([]string, 0, len(s.Conditions))
	for test := range s.Conditions {
		tests = append(tests, test)
	}
	sort.Strings(tests)
	for _, test := range tests {
		vars := make([]string, 0, len(s.Conditions[test]))
		for v := range s.Conditions[test] {
			vars = append(vars, v)
		}
		sort.Strings(vars)
		for _, v := range vars {
			out.Conditions = append(out.Conditions, iam.GetPolicyDocumentStatementCondition{
				Test:     test,
				Variable: v,
				Values:   []string{s.Conditions[test][v]},
			})
		}
	}
	return out
}
