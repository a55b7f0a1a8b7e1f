package stack

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
)

const basicExecutionPolicyArn = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

type Function struct {
	Role        *iam.Role
	Function    *lambda.Function
	Permissions []*lambda.Permission
}

// lambdaTrustPolicy lets the Lambda service assume the execution role.
func lambdaTrustPolicy(ctx *pulumi.Context) (string, error) {
	return policyJSON(ctx, pipeline.NewPolicyDocument(pipeline.PolicyStatement{
		Effect:     pipeline.EffectAllow,
		Principals: []pipeline.Principal{pipeline.ServicePrincipal("lambda.amazonaws.com")},
		Actions:    []string{"sts:AssumeRole"},
	}))
}

func configureFunction(ctx *pulumi.Context, identifier string, c *pipeline.ComputeResource, opts ...pulumi.ResourceOption) (*Function, error) {
	name := resourceName(identifier, c.LogicalName)

	trust, err := lambdaTrustPolicy(ctx)
	if err != nil {
		return nil, err
	}
	role, err := iam.NewRole(ctx, name+"-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(trust),
	}, opts...)
	if err != nil {
		return nil, err
	}
	basic, err := iam.NewRolePolicyAttachment(ctx, name+"-basic", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String(basicExecutionPolicyArn),
	}, opts...)
	if err != nil {
		return nil, err
	}

	code, err := archive(c)
	if err != nil {
		return nil, err
	}
	args := &lambda.FunctionArgs{
		Name:    pulumi.String(c.FunctionName),
		Role:    role.Arn,
		Runtime: pulumi.String(c.Runtime),
		Handler: pulumi.String(c.Handler),
		Code:    code,
	}
	if len(c.Architectures) > 0 {
		args.Architectures = pulumi.ToStringArray(c.Architectures)
	}
	fn, err := lambda.NewFunction(ctx, name, args, with(opts, pulumi.DependsOn([]pulumi.Resource{basic}))...)
	if err != nil {
		return nil, err
	}

	out := &Function{Role: role, Function: fn}
	for _, g := range c.Grants {
		perm, err := lambda.NewPermission(ctx, resourceName(identifier, g.ID), &lambda.PermissionArgs{
			StatementId:   pulumi.String(g.ID),
			Action:        pulumi.String(g.Action),
			Function:      fn.Name,
			Principal:     pulumi.String(g.Principal.Service),
			SourceAccount: pulumi.String(g.SourceAccount),
			SourceArn:     pulumi.String(g.SourceArn),
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("permission %s: %w", g.ID, err)
		}
		out.Permissions = append(out.Permissions, perm)
	}
	return out, nil
}

// archive packages inline source as a single file named after the handler's module
// ("index.handler" -> "index.js"); archive code is passed through as a file archive.
func archive(c *pipeline.ComputeResource) (pulumi.Archive, error) {
	switch code := c.Code.(type) {
	case pipeline.InlineCode:
		module, _, ok := strings.Cut(c.Handler, ".")
		if !ok || module == "" {
			return nil, fmt.Errorf("handler %q has no module", c.Handler)
		}
		return pulumi.NewAssetArchive(map[string]interface{}{
			module + ".js": pulumi.NewStringAsset(code.Source),
		}), nil
	case pipeline.ArchiveCode:
		return pulumi.NewFileArchive(code.Path), nil
	default:
		return nil, fmt.Errorf("unsupported code %T", c.Code)
	}
}
